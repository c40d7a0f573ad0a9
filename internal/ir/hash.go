package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainEvent separates journal event IDs from any other hash use.
// The version suffix leaves room for a future algorithm change.
const DomainEvent = "pedalboard/event/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventID computes the content-addressed ID of one journaled announcement.
// fields must be canonically marshalable; seq makes otherwise identical
// announcements (e.g. two renames to the same name) distinct.
func EventID(fields Object, seq int64) (string, error) {
	obj := Object{
		"event": fields,
		"seq":   seq,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("EventID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEvent, canonical), nil
}

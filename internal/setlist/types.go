package setlist

// BankSpec declares one bank and its pedalboards in order.
type BankSpec struct {
	Name        string           `json:"name"`
	Pedalboards []PedalboardSpec `json:"pedalboards"`
}

// PedalboardSpec declares one pedalboard.
type PedalboardSpec struct {
	Name    string   `json:"name"`
	Effects []string `json:"effects,omitempty"`
}

// PedalboardCount returns the number of pedalboards across specs.
func PedalboardCount(specs []BankSpec) int {
	n := 0
	for _, b := range specs {
		n += len(b.Pedalboards)
	}
	return n
}

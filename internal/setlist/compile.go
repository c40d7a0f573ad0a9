package setlist

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSrc string

// CompileError is a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile unifies v with the setlist schema and extracts the bank list.
//
// v is the package value, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`banks: [{name: "Live"}]`)
//	specs, err := Compile(v)
func Compile(v cue.Value) ([]BankSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.Context().CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}

	v = schema.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	banksVal := v.LookupPath(cue.ParsePath("banks"))
	iter, err := banksVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	specs := []BankSpec{}
	for iter.Next() {
		bank, err := compileBank(iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, bank)
	}
	return specs, nil
}

func compileBank(v cue.Value) (BankSpec, error) {
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return BankSpec{}, formatCUEError(err)
	}
	spec := BankSpec{Name: name, Pedalboards: []PedalboardSpec{}}

	pbVal := v.LookupPath(cue.ParsePath("pedalboards"))
	if !pbVal.Exists() {
		return spec, nil
	}
	iter, err := pbVal.List()
	if err != nil {
		return BankSpec{}, formatCUEError(err)
	}
	for iter.Next() {
		pb, err := compilePedalboard(iter.Value())
		if err != nil {
			return BankSpec{}, err
		}
		spec.Pedalboards = append(spec.Pedalboards, pb)
	}
	return spec, nil
}

func compilePedalboard(v cue.Value) (PedalboardSpec, error) {
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return PedalboardSpec{}, formatCUEError(err)
	}
	spec := PedalboardSpec{Name: name}

	effectsVal := v.LookupPath(cue.ParsePath("effects"))
	if !effectsVal.Exists() {
		return spec, nil
	}
	if err := effectsVal.Decode(&spec.Effects); err != nil {
		return PedalboardSpec{}, &CompileError{
			Field:   "effects",
			Message: fmt.Sprintf("pedalboard %q: %v", name, err),
			Pos:     effectsVal.Pos(),
		}
	}
	return spec, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	compileErr := &CompileError{Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		compileErr.Pos = positions[0]
	}
	return compileErr
}

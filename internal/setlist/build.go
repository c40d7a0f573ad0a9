package setlist

import (
	"fmt"

	"github.com/roach88/pedalboard/internal/controller"
	"github.com/roach88/pedalboard/internal/model"
)

// Build creates unregistered model banks from specs, in order.
func Build(specs []BankSpec) []*model.Bank {
	banks := make([]*model.Bank, 0, len(specs))
	for _, spec := range specs {
		b := model.NewBank(spec.Name)
		for _, p := range spec.Pedalboards {
			b.Append(model.NewPedalboard(p.Name, p.Effects...))
		}
		banks = append(banks, b)
	}
	return banks
}

// Populate builds specs and registers every bank through banks, in order.
// Stops at the first bank the controller rejects; banks registered before
// it stay registered.
func Populate(banks *controller.Banks, specs []BankSpec) ([]*model.Bank, error) {
	built := Build(specs)
	for _, b := range built {
		if err := banks.Create(b); err != nil {
			return nil, fmt.Errorf("populate bank %q: %w", b.Name, err)
		}
	}
	return built, nil
}

package cylinder

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Kind is the nominal size of a cylinder. Each kind has a fixed capacity.
type Kind int

const (
	KindUnknown Kind = iota
	Kind6Kg
	Kind13Kg
	Kind50Kg
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown: "UNKNOWN",
		Kind6Kg:     "6KG",
		Kind13Kg:    "13KG",
		Kind50Kg:    "50KG",
	}
}

func getKindCapacities() map[Kind]float64 {
	return map[Kind]float64{
		Kind6Kg:  6,
		Kind13Kg: 13,
		Kind50Kg: 50,
	}
}

func ParseKind(s string) (Kind, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for kind, str := range getKindStrings() {
		if kind != KindUnknown && str == normalized {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("cylinder kind", fmt.Errorf("%q is not one of 6KG, 13KG, 50KG", s))
}

func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "UNKNOWN"
}

func (k Kind) Validate() error {
	if _, ok := getKindCapacities()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("cylinder kind", fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}

// CapacityKg returns the fixed gas capacity of the kind, or 0 for invalid kinds.
func (k Kind) CapacityKg() float64 {
	return getKindCapacities()[k]
}

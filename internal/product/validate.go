package product

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("invalid product list")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			fl, _ := d.Float64()
			return fl
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ValidateList checks every record against the struct tags and rejects
// repeated ids.
func ValidateList(ps []Product) error {
	seen := make(map[ID]struct{}, len(ps))
	for i, p := range ps {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrInvalid, i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalid, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

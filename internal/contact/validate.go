package contact

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidValue marks a value that fails strict validation.
var ErrInvalidValue = errors.New("invalid contact value")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// valueRules lists the validator tags applied per attribute in strict mode.
var valueRules = map[Attribute]string{
	Email: "email",
	URL:   "url",
}

// Validate checks values that have a well-defined syntax. It is only applied
// when strict values are enabled; by default the address book keeps whatever
// it is given.
func Validate(c *Contact) error {
	if c == nil {
		return fmt.Errorf("%w: nil contact", ErrInvalidValue)
	}
	v := instance()
	for _, attr := range attributeOrder {
		rule, ok := valueRules[attr]
		if !ok {
			continue
		}
		for _, value := range c.attrs[attr] {
			if err := v.Var(value, rule); err != nil {
				return fmt.Errorf("%w: %s %q", ErrInvalidValue, attr, value)
			}
		}
	}
	return nil
}

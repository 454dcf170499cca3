// Package validatecfg validates a config.Config against its struct tags
// using go-playground/validator, the teacher's choice for config/request
// validation (pkg/validation in the source pack).
package validatecfg

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/uacore/addrspace/pkg/config"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() { validate = validator.New() })
	return validate
}

// Validate checks cfg's struct tags and returns a single combined error
// describing every failing field, or nil when the config is valid.
func Validate(cfg *config.Config) error {
	if err := instance().Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validatecfg: %w", err)
		}
		var msgs []string
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("validatecfg: %s", strings.Join(msgs, "; "))
	}
	return nil
}

package httpx

import (
	"fmt"
	"sync"

	"auvora-crm/internal/domain/tenants"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request bodies.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("subdomain", validateSubdomain)
	})
	return err
}

func validateSubdomain(fl validator.FieldLevel) bool {
	return tenants.ValidateSubdomain(tenants.NormalizeSubdomain(fl.Field().String())) == nil
}

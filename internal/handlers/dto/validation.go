package dto

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
)

var registerOnce sync.Once

// RegisterValidators registra no validator do Gin a tag "capability" e o uso
// dos nomes JSON nos erros de campo. Pode ser chamado mais de uma vez.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)
		err = v.RegisterValidation("capability", validateCapability)
	})
	return err
}

// validateCapability aceita "recurso:acao" ou "*"
func validateCapability(fl validator.FieldLevel) bool {
	_, err := entities.ParseCapability(fl.Field().String())
	return err == nil
}

func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

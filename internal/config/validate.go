package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/davetashner/phishdedup/internal/decision"
	"github.com/davetashner/phishdedup/internal/output"
	"github.com/davetashner/phishdedup/internal/store"
)

var (
	vOnce sync.Once
	vInst *validator.Validate
)

// parsers back the custom validation tags; each returns the parse error
// reported to the user.
var parsers = map[string]func(string) error{
	"sender_policy": func(s string) error { _, err := decision.ParseSenderPolicy(s); return err },
	"status_scope":  func(s string) error { _, err := store.ParseStatusScope(s); return err },
	"lookback":      func(s string) error { _, err := store.ParseLookback(s); return err },
	"output_format": func(s string) error { _, err := output.GetFormatter(s); return err },
	"field_name": func(s string) error {
		if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t\n.") {
			return fmt.Errorf("invalid field name %q", s)
		}
		return nil
	},
}

func validate() *validator.Validate {
	vOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report yaml key names, as written in the config file.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("yaml")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			return strings.Split(tag, ",")[0]
		})

		for tag, parse := range parsers {
			_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return parse(fl.Field().String()) == nil
			})
		}
		vInst = v
	})
	return vInst
}

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	err := validate().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	errs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Sprintf("%s: %s", keyPath(fe), describe(fe)))
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// keyPath strips the root struct name from a validator namespace.
func keyPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	value := reflect.Indirect(reflect.ValueOf(fe.Value()))
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), value)
	case "lte":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), value)
	}
	if parse, ok := parsers[fe.Tag()]; ok {
		if err := parse(value.String()); err != nil {
			return err.Error()
		}
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

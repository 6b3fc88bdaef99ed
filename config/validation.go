// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stratastor/warren/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("failed to register duration validation: %v", err))
	}
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ConfigValidationFailed, "no configuration loaded")
	}
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError reports the first failing field.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return errors.New(errors.ConfigValidationFailed,
			fmt.Sprintf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value())).
			WithMetadata("field", e.Namespace()).
			WithMetadata("failed", fmt.Sprint(len(verrs)))
	}
	return errors.Wrap(err, errors.ConfigValidationFailed)
}

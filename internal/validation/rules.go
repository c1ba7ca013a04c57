// Package validation provides jellydator/validation rules shared by the request DTOs.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/tokenvault/internal/errors"
)

var tokenHandleRegex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that a string has no leading or trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// TokenHandle validates the 64 character lowercase hex token format.
var TokenHandle = validation.NewStringRuleWithError(
	func(s string) bool {
		return tokenHandleRegex.MatchString(s)
	},
	validation.NewError("validation_token_handle", "must be a 64 character hex token"),
)

// UUID validates the canonical textual UUID form.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil && len(s) == 36
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// FieldMap validates a plaintext field map: at least one field, at most maxFields,
// and every key non-blank without surrounding whitespace. Values may be empty.
func FieldMap(maxFields int) validation.Rule {
	return validation.By(func(value any) error {
		fields, ok := value.(map[string]string)
		if !ok {
			return validation.NewError("validation_field_map_type", "must be an object of string values")
		}
		if len(fields) == 0 {
			return validation.NewError("validation_field_map_empty", "must contain at least one field")
		}
		if maxFields > 0 && len(fields) > maxFields {
			return validation.NewError(
				"validation_field_map_size",
				fmt.Sprintf("must contain at most %d fields", maxFields),
			)
		}
		for key := range fields {
			if strings.TrimSpace(key) == "" || key != strings.TrimSpace(key) {
				return validation.NewError(
					"validation_field_name",
					"field names must be non-blank without surrounding whitespace",
				)
			}
		}
		return nil
	})
}

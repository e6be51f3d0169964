package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	typeKeyRegex    = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)
	partNumberRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)
)

// registerRules registers the tags used in DTO struct tags.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("type_key", isTypeKey); err != nil {
		return err
	}
	if err := v.RegisterValidation("point_type", isPointType); err != nil {
		return err
	}
	if err := v.RegisterValidation("part_number", isPartNumber); err != nil {
		return err
	}
	return nil
}

// isTypeKey - equipment template keys are lowercase snake identifiers
// ("ahu", "fcu_4pipe"); the client uses them as object keys, so no spaces
// or punctuation.
func isTypeKey(fl validator.FieldLevel) bool {
	return typeKeyRegex.MatchString(fl.Field().String())
}

// isPointType - point types are short codes (AI, DO, BACnet, Modbus...).
// Free-form but bounded; an empty or oversized value is a client bug.
func isPointType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) > 0 && len(s) <= 50
}

// isPartNumber - catalog part numbers: alphanumeric with the usual
// separators, no leading separator ("T-S-10k", "V-MOD-1").
func isPartNumber(fl validator.FieldLevel) bool {
	return partNumberRegex.MatchString(fl.Field().String())
}

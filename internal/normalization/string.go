package normalization

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key is the identity form of a name: trimmed and Unicode case-folded.
func Key(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(trimmed)
}

func KeyPtr(input *string) string {
	if input == nil {
		return ""
	}
	return Key(*input)
}

// OptionalString trims and maps blank values to nil.
func OptionalString(input *string) *string {
	if input == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*input)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

var equipmentTypes = map[string]struct{}{
	"equipment":  {},
	"labware":    {},
	"instrument": {},
	"glassware":  {},
	"safety":     {},
	"storage":    {},
	"consumable": {},
	"other":      {},
}

// EquipmentType maps free text onto the closed equipment type set. Unknown values become "other".
func EquipmentType(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := equipmentTypes[normalized]; ok {
		return normalized
	}
	return "other"
}

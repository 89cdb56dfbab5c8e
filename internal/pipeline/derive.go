package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"fleetdesk/internal"
)

// A Deriver fills in fields that the direct column mapping could not.
// Derivers are best-effort hints layered on top of the mapping; each
// one checks its own preconditions and leaves the record alone when
// they do not hold.
type Deriver func(fields map[internal.Field]string)

var defaultDerivers = []Deriver{
	deriveBrandModel,
	deriveTireSize,
}

// deriveBrandModel splits a combined "Merk en model" value when no
// dedicated brand column was present: first token is the brand, the
// rest is the model. A single-word value becomes the brand with an
// empty-but-present model, which marks the split as attempted but
// inconclusive.
func deriveBrandModel(fields map[internal.Field]string) {
	combined, ok := fields[internal.FieldBrandModel]
	if !ok {
		return
	}
	if _, has := fields[internal.FieldBrand]; has {
		return
	}

	idx := strings.IndexFunc(combined, unicode.IsSpace)
	if idx < 0 {
		fields[internal.FieldBrand] = combined
		fields[internal.FieldModel] = ""
		return
	}
	fields[internal.FieldBrand] = combined[:idx]
	fields[internal.FieldModel] = strings.TrimLeftFunc(combined[idx:], unicode.IsSpace)
}

// 205/55R16, 205/55/16, 205/55 R 16 and friends.
var tireSizeRe = regexp.MustCompile(`(?i)\b\d{3}\s*/\s*\d{2,3}\s*/?\s*R?\s*\d{2}\b`)

// deriveTireSize scans the free-text fields for the first tire-size
// shaped substring and normalizes it: whitespace stripped, upper case.
func deriveTireSize(fields map[internal.Field]string) {
	if _, ok := fields[internal.FieldTireSize]; ok {
		return
	}

	parts := make([]string, 0, 3)
	for _, field := range []internal.Field{internal.FieldRemarks, internal.FieldGeneralInfo, internal.FieldInternalNotes} {
		if value, ok := fields[field]; ok && value != "" {
			parts = append(parts, value)
		}
	}
	if len(parts) == 0 {
		return
	}

	match := tireSizeRe.FindString(strings.Join(parts, " "))
	if match == "" {
		return
	}
	fields[internal.FieldTireSize] = strings.ToUpper(strings.Join(strings.Fields(match), ""))
}

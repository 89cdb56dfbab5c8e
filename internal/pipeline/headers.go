package pipeline

import (
	"fmt"
	"strings"

	"fleetdesk/internal"
	"fleetdesk/internal/util"
)

// synonymTable maps every recognized header spelling (Dutch and
// English, lowercased) to its canonical field. Many spellings, one
// field. Lookup is exact after NormalizeHeader; no fuzzy matching, so
// the same file always maps the same way.
var synonymTable = map[string]internal.Field{
	"kenteken":       internal.FieldLicensePlate,
	"kentekennummer": internal.FieldLicensePlate,
	"nummerplaat":    internal.FieldLicensePlate,
	"license plate":  internal.FieldLicensePlate,
	"licence plate":  internal.FieldLicensePlate,
	"plate":          internal.FieldLicensePlate,

	"merk":  internal.FieldBrand,
	"brand": internal.FieldBrand,
	"make":  internal.FieldBrand,

	"model": internal.FieldModel,

	"merk en model":   internal.FieldBrandModel,
	"merk/model":      internal.FieldBrandModel,
	"merk model":      internal.FieldBrandModel,
	"brand and model": internal.FieldBrandModel,
	"brand/model":     internal.FieldBrandModel,
	"make and model":  internal.FieldBrandModel,
	"make/model":      internal.FieldBrandModel,

	"soort":          internal.FieldVehicleType,
	"voertuigsoort":  internal.FieldVehicleType,
	"soort voertuig": internal.FieldVehicleType,
	"vehicle type":   internal.FieldVehicleType,

	"brandstof":      internal.FieldFuel,
	"brandstofsoort": internal.FieldFuel,
	"fuel":           internal.FieldFuel,
	"fuel type":      internal.FieldFuel,

	"bedrijf": internal.FieldCompany,
	"company": internal.FieldCompany,

	"tenaamgestelde": internal.FieldRegisteredTo,
	"op naam van":    internal.FieldRegisteredTo,
	"registered to":  internal.FieldRegisteredTo,

	"tenaamstelling":       internal.FieldRegistrationDate,
	"datum tenaamstelling": internal.FieldRegistrationDate,
	"registration date":    internal.FieldRegistrationDate,

	"chassisnummer":  internal.FieldChassisNumber,
	"framenummer":    internal.FieldChassisNumber,
	"chassis number": internal.FieldChassisNumber,
	"vin":            internal.FieldChassisNumber,

	"apk":             internal.FieldAPKDate,
	"apk datum":       internal.FieldAPKDate,
	"apk vervaldatum": internal.FieldAPKDate,
	"apk date":        internal.FieldAPKDate,
	"apk expiry":      internal.FieldAPKDate,

	"bouwjaar":               internal.FieldProductionDate,
	"productiedatum":         internal.FieldProductionDate,
	"datum eerste toelating": internal.FieldProductionDate,
	"production date":        internal.FieldProductionDate,

	"gps":            internal.FieldGPS,
	"gps tracker":    internal.FieldGPS,
	"track en trace": internal.FieldGPS,
	"track & trace":  internal.FieldGPS,

	"eurozone":   internal.FieldEuroZone,
	"euro zone":  internal.FieldEuroZone,
	"euronorm":   internal.FieldEuroZone,
	"euro norm":  internal.FieldEuroZone,
	"milieuzone": internal.FieldEuroZone,

	"pechhulp":            internal.FieldRoadsideAssistance,
	"wegenwacht":          internal.FieldRoadsideAssistance,
	"roadside assistance": internal.FieldRoadsideAssistance,

	"reservesleutel":  internal.FieldSpareKey,
	"reserve sleutel": internal.FieldSpareKey,
	"tweede sleutel":  internal.FieldSpareKey,
	"spare key":       internal.FieldSpareKey,

	"winterbanden": internal.FieldWinterTires,
	"winterset":    internal.FieldWinterTires,
	"winter tires": internal.FieldWinterTires,
	"winter tyres": internal.FieldWinterTires,

	"bandenmaat": internal.FieldTireSize,
	"bandmaat":   internal.FieldTireSize,
	"tire size":  internal.FieldTireSize,
	"tyre size":  internal.FieldTireSize,

	"interne notities":    internal.FieldInternalNotes,
	"interne opmerkingen": internal.FieldInternalNotes,
	"notities":            internal.FieldInternalNotes,
	"internal notes":      internal.FieldInternalNotes,

	"opmerkingen":    internal.FieldRemarks,
	"opmerking":      internal.FieldRemarks,
	"bijzonderheden": internal.FieldRemarks,
	"remarks":        internal.FieldRemarks,

	"algemene info":       internal.FieldGeneralInfo,
	"algemene informatie": internal.FieldGeneralInfo,
	"general info":        internal.FieldGeneralInfo,
	"info":                internal.FieldGeneralInfo,
}

// HeaderMapping binds column positions to canonical fields for one
// table. Unmatched keeps the raw label of every unrecognized non-empty
// column so heuristics can still look at those values. Warnings lists
// duplicate assignments that were resolved last-column-wins.
type HeaderMapping struct {
	Columns   map[int]internal.Field
	Unmatched map[int]string
	Warnings  []string
}

func MapHeaders(headers []string) HeaderMapping {
	mapping := HeaderMapping{
		Columns:   map[int]internal.Field{},
		Unmatched: map[int]string{},
	}
	assigned := map[internal.Field]int{}

	for i, header := range headers {
		norm := util.NormalizeHeader(header)
		if norm == "" {
			continue
		}
		field, ok := synonymTable[norm]
		if !ok {
			mapping.Unmatched[i] = strings.TrimSpace(header)
			continue
		}
		if prev, dup := assigned[field]; dup {
			mapping.Warnings = append(mapping.Warnings,
				fmt.Sprintf("columns %d and %d both map to %s, keeping column %d", prev+1, i+1, field, i+1))
			delete(mapping.Columns, prev)
		}
		assigned[field] = i
		mapping.Columns[i] = field
	}

	return mapping
}

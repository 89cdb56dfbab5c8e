package pipeline

import (
	"context"
	"errors"
	"strings"

	"fleetdesk/internal"
	"fleetdesk/internal/registry"
)

// RegistryLookup resolves a license plate to vehicle attributes via the
// external vehicle registry. A missing plate is registry.ErrNotFound;
// any other error means the registry is unreachable and aborts the
// operation.
type RegistryLookup interface {
	LookupPlate(ctx context.Context, plate string) (internal.VehicleFacts, error)
}

// PlateImportService is the simpler sibling of the tabular pipeline:
// no decoding or header mapping, just one registry lookup per plate,
// then the shared partition-and-commit step.
type PlateImportService struct {
	registry RegistryLookup
	importer *ImportService
}

func NewPlateImportService(lookup RegistryLookup, creator VehicleCreator) *PlateImportService {
	return &PlateImportService{registry: lookup, importer: NewImportService(creator)}
}

func (s *PlateImportService) ImportPlates(ctx context.Context, plates []string) (internal.ImportOutcome, error) {
	candidates := make([]internal.Candidate, 0, len(plates))
	row := 0
	for _, plate := range plates {
		plate = strings.TrimSpace(plate)
		if plate == "" {
			continue
		}
		row++

		facts, err := s.registry.LookupPlate(ctx, plate)
		if errors.Is(err, registry.ErrNotFound) {
			candidates = append(candidates, internal.Candidate{
				Row:    row,
				Fields: map[internal.Field]string{internal.FieldLicensePlate: plate},
				Valid:  false,
				Errors: []string{"Not found in vehicle registry"},
			})
			continue
		}
		if err != nil {
			return internal.ImportOutcome{}, err
		}

		candidates = append(candidates, validateRecord(candidateFromFacts(row, plate, facts)))
	}

	return s.importer.Commit(ctx, candidates)
}

func candidateFromFacts(row int, plate string, facts internal.VehicleFacts) internal.Candidate {
	if strings.TrimSpace(facts.LicensePlate) != "" {
		plate = facts.LicensePlate
	}

	fields := map[internal.Field]string{
		internal.FieldLicensePlate: plate,
	}
	set := func(field internal.Field, value string) {
		if strings.TrimSpace(value) != "" {
			fields[field] = strings.TrimSpace(value)
		}
	}
	set(internal.FieldBrand, facts.Brand)
	set(internal.FieldModel, facts.Model)
	set(internal.FieldVehicleType, facts.VehicleType)
	set(internal.FieldFuel, facts.Fuel)
	set(internal.FieldRegistrationDate, facts.RegistrationDate)
	set(internal.FieldChassisNumber, facts.ChassisNumber)
	set(internal.FieldAPKDate, facts.APKDate)
	set(internal.FieldProductionDate, facts.ProductionDate)

	return internal.Candidate{Row: row, Fields: fields}
}

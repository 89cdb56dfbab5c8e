package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"fleetdesk/internal"
)

// ErrNoData is returned when a decoded file holds no header or no data
// rows. It is a user-facing condition, not a crash.
var ErrNoData = errors.New("no importable data in file")

// VehicleCreator is the persistence boundary: it receives the valid
// candidates in one batch and answers per candidate, in the same
// order, with a created vehicle or a failure reason.
type VehicleCreator interface {
	CreateVehicles(ctx context.Context, candidates []internal.Candidate) ([]internal.CreateResult, error)
}

type ImportService struct {
	creator VehicleCreator
}

func NewImportService(creator VehicleCreator) *ImportService {
	return &ImportService{creator: creator}
}

// Preview runs decode, mapping and validation without touching the
// persistence boundary. The CLI uses it for dry runs; ImportFile uses
// it as its first half. The second return value carries header-mapping
// warnings.
func (s *ImportService) Preview(format FileFormat, raw []byte) ([]internal.Candidate, []string, error) {
	table, err := Decode(format, raw)
	if err != nil {
		return nil, nil, err
	}
	if table.Empty() {
		return nil, nil, ErrNoData
	}
	mapping := MapHeaders(table.Headers)
	candidates := ValidateRecords(MapRecordsWith(table, mapping))
	return candidates, mapping.Warnings, nil
}

func (s *ImportService) ImportFile(ctx context.Context, format FileFormat, raw []byte) (internal.ImportOutcome, error) {
	candidates, warnings, err := s.Preview(format, raw)
	if err != nil {
		return internal.ImportOutcome{}, err
	}
	outcome, err := s.Commit(ctx, candidates)
	if err != nil {
		return internal.ImportOutcome{}, err
	}
	outcome.Warnings = warnings
	return outcome, nil
}

// Commit partitions candidates by validity, reports the invalid ones
// without a network attempt, submits the rest as a single batch, and
// merges the boundary's answers into one outcome. A whole-batch error
// is fatal to the operation: no partial imported list is fabricated.
func (s *ImportService) Commit(ctx context.Context, candidates []internal.Candidate) (internal.ImportOutcome, error) {
	outcome := internal.ImportOutcome{
		Imported: []internal.ImportedRecord{},
		Failed:   []internal.FailedRecord{},
	}

	valid := make([]internal.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Valid {
			valid = append(valid, c)
			continue
		}
		reason := "invalid record"
		if len(c.Errors) > 0 {
			reason = strings.Join(c.Errors, "; ")
		}
		outcome.Failed = append(outcome.Failed, internal.FailedRecord{Source: c, Reason: reason})
	}

	if len(valid) == 0 {
		return outcome, nil
	}

	results, err := s.creator.CreateVehicles(ctx, valid)
	if err != nil {
		return internal.ImportOutcome{}, err
	}
	if len(results) != len(valid) {
		return internal.ImportOutcome{}, fmt.Errorf("vehicle store answered %d results for %d candidates", len(results), len(valid))
	}

	for i, res := range results {
		if res.Error != "" {
			outcome.Failed = append(outcome.Failed, internal.FailedRecord{Source: valid[i], Reason: res.Error})
			continue
		}
		if res.Vehicle == nil {
			return internal.ImportOutcome{}, fmt.Errorf("vehicle store answered neither vehicle nor error for row %d", valid[i].Row)
		}
		outcome.Imported = append(outcome.Imported, internal.ImportedRecord{Source: valid[i], Vehicle: *res.Vehicle})
	}

	sort.SliceStable(outcome.Failed, func(i, j int) bool {
		return outcome.Failed[i].Source.Row < outcome.Failed[j].Source.Row
	})

	return outcome, nil
}

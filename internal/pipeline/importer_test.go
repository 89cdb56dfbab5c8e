package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fleetdesk/internal"
)

type fakeCreator struct {
	calls    int
	failOn   map[string]string
	batchErr error
	got      []internal.Candidate
}

func (f *fakeCreator) CreateVehicles(_ context.Context, candidates []internal.Candidate) ([]internal.CreateResult, error) {
	f.calls++
	f.got = candidates
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([]internal.CreateResult, 0, len(candidates))
	for i, c := range candidates {
		if reason, ok := f.failOn[c.Plate()]; ok {
			out = append(out, internal.CreateResult{Error: reason})
			continue
		}
		out = append(out, internal.CreateResult{Vehicle: &internal.CreatedVehicle{
			ID:           fmt.Sprintf("veh-%d", i),
			LicensePlate: c.Plate(),
			Fields:       c.Fields,
		}})
	}
	return out, nil
}

func mkCandidate(row int, plate string, valid bool) internal.Candidate {
	c := internal.Candidate{Row: row, Fields: map[internal.Field]string{}}
	if plate != "" {
		c.Fields[internal.FieldLicensePlate] = plate
	}
	c.Valid = valid
	if !valid {
		c.Errors = []string{"Missing license plate"}
	}
	return c
}

func TestCommitPartitionsAndMerges(t *testing.T) {
	creator := &fakeCreator{failOn: map[string]string{"CC-22-DD": "Duplicate license plate: CC-22-DD"}}
	svc := NewImportService(creator)

	candidates := []internal.Candidate{
		mkCandidate(1, "AA-11-BB", true),
		mkCandidate(2, "", false),
		mkCandidate(3, "CC-22-DD", true),
		mkCandidate(4, "EE-33-FF", true),
	}

	outcome, err := svc.Commit(context.Background(), candidates)
	if err != nil {
		t.Fatal(err)
	}
	if creator.calls != 1 {
		t.Fatalf("boundary called %d times", creator.calls)
	}
	if len(creator.got) != 3 {
		t.Fatalf("submitted=%d", len(creator.got))
	}
	if len(outcome.Imported) != 2 || len(outcome.Failed) != 2 {
		t.Fatalf("imported=%d failed=%d", len(outcome.Imported), len(outcome.Failed))
	}

	// Every candidate ends up in exactly one bucket.
	if len(outcome.Imported)+len(outcome.Failed) != len(candidates) {
		t.Fatal("candidate lost or duplicated")
	}

	// Failures in source-row order: validator failure (row 2) before
	// the boundary failure (row 3).
	if outcome.Failed[0].Source.Row != 2 || outcome.Failed[1].Source.Row != 3 {
		t.Fatalf("failed order: %d, %d", outcome.Failed[0].Source.Row, outcome.Failed[1].Source.Row)
	}
	if outcome.Failed[1].Reason != "Duplicate license plate: CC-22-DD" {
		t.Fatalf("reason=%q", outcome.Failed[1].Reason)
	}
}

func TestCommitAllInvalidSkipsBoundary(t *testing.T) {
	creator := &fakeCreator{}
	svc := NewImportService(creator)

	outcome, err := svc.Commit(context.Background(), []internal.Candidate{
		mkCandidate(1, "", false),
		mkCandidate(2, "", false),
	})
	if err != nil {
		t.Fatal(err)
	}
	if creator.calls != 0 {
		t.Fatal("boundary must not be called without valid candidates")
	}
	if len(outcome.Failed) != 2 || len(outcome.Imported) != 0 {
		t.Fatalf("imported=%d failed=%d", len(outcome.Imported), len(outcome.Failed))
	}
}

func TestCommitWholeBatchFailure(t *testing.T) {
	creator := &fakeCreator{batchErr: errors.New("store unreachable")}
	svc := NewImportService(creator)

	outcome, err := svc.Commit(context.Background(), []internal.Candidate{
		mkCandidate(1, "AA-11-BB", true),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(outcome.Imported) != 0 || len(outcome.Failed) != 0 {
		t.Fatalf("no partial outcome allowed: %+v", outcome)
	}
}

func TestImportFileNoData(t *testing.T) {
	svc := NewImportService(&fakeCreator{})
	_, err := svc.ImportFile(context.Background(), FormatDelimited, []byte("Kenteken,Merk\n"))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err=%v", err)
	}
}

func TestImportFileSurfacesMappingWarnings(t *testing.T) {
	creator := &fakeCreator{}
	svc := NewImportService(creator)

	raw := []byte("Kenteken,License plate\nAA-11-BB,BB-22-CC\n")
	outcome, err := svc.ImportFile(context.Background(), FormatDelimited, raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcome.Warnings) != 1 {
		t.Fatalf("warnings=%v", outcome.Warnings)
	}
	// Last column wins.
	if outcome.Imported[0].Vehicle.LicensePlate != "BB-22-CC" {
		t.Fatalf("plate=%q", outcome.Imported[0].Vehicle.LicensePlate)
	}
}

func TestImportFileEndToEnd(t *testing.T) {
	creator := &fakeCreator{}
	svc := NewImportService(creator)

	raw := []byte("Kenteken,Merk,Model\nAA-11-BB,Toyota,Corolla\n")
	outcome, err := svc.ImportFile(context.Background(), FormatDelimited, raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcome.Imported) != 1 || len(outcome.Failed) != 0 {
		t.Fatalf("imported=%d failed=%d", len(outcome.Imported), len(outcome.Failed))
	}
	rec := outcome.Imported[0]
	if rec.Vehicle.LicensePlate != "AA-11-BB" {
		t.Fatalf("plate=%q", rec.Vehicle.LicensePlate)
	}
	if rec.Source.Fields[internal.FieldBrand] != "Toyota" || rec.Source.Fields[internal.FieldModel] != "Corolla" {
		t.Fatalf("fields=%v", rec.Source.Fields)
	}
	if !rec.Source.Valid {
		t.Fatal("candidate should be valid")
	}
}

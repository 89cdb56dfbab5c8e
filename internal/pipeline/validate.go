package pipeline

import (
	"strings"

	"fleetdesk/internal"
)

const errMissingPlate = "Missing license plate"

// ValidateRecords seals every candidate with its validity flag and
// error list. Nothing is dropped: the sequence leaving here has the
// same length and order as the one coming in, so row N of a review
// list is row N of the source file.
//
// The rules here only gate what is worth sending to the persistence
// boundary. Plate format, date parsing and duplicate detection are the
// boundary's business and come back as per-item failures.
func ValidateRecords(candidates []internal.Candidate) []internal.Candidate {
	out := make([]internal.Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = validateRecord(c)
	}
	return out
}

func validateRecord(c internal.Candidate) internal.Candidate {
	errs := []string{}
	if strings.TrimSpace(c.Plate()) == "" {
		errs = append(errs, errMissingPlate)
	}
	c.Valid = len(errs) == 0
	c.Errors = errs
	return c
}

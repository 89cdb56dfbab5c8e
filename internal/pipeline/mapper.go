package pipeline

import (
	"sort"
	"strings"

	"fleetdesk/internal"
)

// MapRecords turns every raw row into a candidate, in row order.
// Direct column mapping first, then the deriver chain for fields that
// are missing or hiding in free text. Rows that produce no canonical
// fields and carry no cell content at all are blank padding and are
// dropped; everything else survives to validation.
func MapRecords(table RawTable) []internal.Candidate {
	return MapRecordsWith(table, MapHeaders(table.Headers))
}

func MapRecordsWith(table RawTable, mapping HeaderMapping) []internal.Candidate {
	columns := make([]int, 0, len(mapping.Columns))
	for col := range mapping.Columns {
		columns = append(columns, col)
	}
	sort.Ints(columns)

	out := make([]internal.Candidate, 0, len(table.Rows))
	for i, row := range table.Rows {
		fields := map[internal.Field]string{}
		for _, col := range columns {
			if col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" {
				continue
			}
			fields[mapping.Columns[col]] = value
		}

		for _, derive := range defaultDerivers {
			derive(fields)
		}

		if len(fields) == 0 && !rowHasContent(row) {
			continue
		}

		out = append(out, internal.Candidate{
			Row:    i + 1,
			Fields: fields,
		})
	}
	return out
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

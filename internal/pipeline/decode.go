package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"fleetdesk/internal/util"
)

// RawTable is the decoded shape of one import file: an ordered header
// row plus ordered data rows. Rows are not padded or truncated to the
// header width; the mapper deals with short and long rows.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Empty reports whether the input held no header or no data rows.
// Callers treat an empty table as "no importable data", not as a crash.
func (t RawTable) Empty() bool {
	return len(t.Headers) == 0 || len(t.Rows) == 0
}

type FileFormat string

const (
	FormatDelimited   FileFormat = "csv"
	FormatSpreadsheet FileFormat = "xlsx"
	FormatHTML        FileFormat = "html"
)

func Decode(format FileFormat, raw []byte) (RawTable, error) {
	switch format {
	case FormatDelimited:
		return decodeDelimited(raw), nil
	case FormatSpreadsheet:
		return decodeXLSX(raw)
	case FormatHTML:
		return decodeHTML(raw)
	default:
		return RawTable{}, fmt.Errorf("unsupported input format: %s", format)
	}
}

func decodeDelimited(raw []byte) RawTable {
	lines := splitLines(string(raw))
	if len(lines) < 2 {
		return RawTable{}
	}

	delimiter := ","
	if strings.Contains(lines[0], ";") {
		delimiter = ";"
	}

	headers := splitCells(lines[0], delimiter)
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, splitCells(line, delimiter))
	}
	return RawTable{Headers: headers, Rows: rows}
}

func decodeXLSX(raw []byte) (RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return RawTable{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, nil
	}

	// First sheet only. Back-office exports put everything on sheet one;
	// additional sheets are pivots and charts we must not import.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RawTable{}, err
	}

	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		empty := true
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
			if cells[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		kept = append(kept, cells)
	}

	if len(kept) < 2 {
		return RawTable{}, nil
	}
	return RawTable{Headers: kept[0], Rows: kept[1:]}, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitCells(line, delimiter string) []string {
	parts := strings.Split(line, delimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		cell := strings.TrimSpace(p)
		cell = strings.Trim(cell, `"'`)
		out = append(out, util.CollapseSpaces(cell))
	}
	return out
}

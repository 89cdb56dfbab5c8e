package pipeline

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fleetdesk/internal/util"
)

// decodeHTML reads the first table of an HTML document into a RawTable.
// Fleet lists pasted out of webmail or an intranet page arrive this way.
func decodeHTML(raw []byte) (RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return RawTable{}, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return RawTable{}, nil
	}

	parsed := [][]string{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := []string{}
		empty := true
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			text := util.CollapseSpaces(cell.Text())
			cells = append(cells, text)
			if text != "" {
				empty = false
			}
		})
		if len(cells) == 0 || empty {
			return
		}
		parsed = append(parsed, cells)
	})

	if len(parsed) < 2 {
		return RawTable{}, nil
	}

	headers := make([]string, len(parsed[0]))
	for i, h := range parsed[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return RawTable{Headers: headers, Rows: parsed[1:]}, nil
}

package pipeline

import (
	"bytes"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// Dutch plates are three dash-separated groups: AA-11-BB, 11-AAA-1 and
// so on. Matching is done on the upper-cased line.
var plateTokenRe = regexp.MustCompile(`\b[A-Z0-9]{1,3}-[A-Z0-9]{1,3}-[A-Z0-9]{1,3}\b`)

// ExtractPlatesFromText reads a plate list from plain text: one plate
// per line, or comma-separated. Lines with a plate-shaped token
// contribute that token; anything else is ignored. Duplicates keep
// their first position.
func ExtractPlatesFromText(text string) []string {
	plates := []string{}
	for _, line := range splitLines(text) {
		for _, part := range strings.Split(line, ",") {
			token := plateTokenRe.FindString(strings.ToUpper(strings.TrimSpace(part)))
			if token != "" {
				plates = append(plates, token)
			}
		}
	}
	return dedupePlates(plates)
}

// ExtractPlatesFromPDF scans the text of a PDF document for
// plate-shaped tokens. Lease companies hand over fleet lists as PDF
// exports often enough to make this worth having.
func ExtractPlatesFromPDF(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	plates := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range splitLines(text) {
			plates = append(plates, plateTokenRe.FindAllString(strings.ToUpper(line), -1)...)
		}
	}
	return dedupePlates(plates), nil
}

func dedupePlates(plates []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(plates))
	for _, plate := range plates {
		if _, ok := seen[plate]; ok {
			continue
		}
		seen[plate] = struct{}{}
		out = append(out, plate)
	}
	return out
}

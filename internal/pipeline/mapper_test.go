package pipeline

import (
	"reflect"
	"testing"

	"fleetdesk/internal"
)

func TestMapRecordsDirectMapping(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Merk", "Model"},
		Rows:    [][]string{{"AA-11-BB", "Toyota", "Corolla"}},
	}
	candidates := MapRecords(table)
	if len(candidates) != 1 {
		t.Fatalf("len=%d", len(candidates))
	}
	c := candidates[0]
	if c.Plate() != "AA-11-BB" {
		t.Fatalf("plate=%q", c.Plate())
	}
	if c.Fields[internal.FieldBrand] != "Toyota" || c.Fields[internal.FieldModel] != "Corolla" {
		t.Fatalf("fields=%v", c.Fields)
	}
}

func TestMapRecordsShortAndLongRows(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Merk", "Model"},
		Rows: [][]string{
			{"AA-11-BB"},
			{"CC-22-DD", "Ford", "Focus", "extra", "cells"},
		},
	}
	candidates := MapRecords(table)
	if len(candidates) != 2 {
		t.Fatalf("len=%d", len(candidates))
	}
	if _, ok := candidates[0].Get(internal.FieldBrand); ok {
		t.Fatal("short row should leave brand absent")
	}
	if candidates[1].Fields[internal.FieldModel] != "Focus" {
		t.Fatalf("fields=%v", candidates[1].Fields)
	}
}

func TestMapRecordsCombinedBrandModelSplit(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Merk en model"},
		Rows:    [][]string{{"AA-11-BB", "Volkswagen Golf GTI"}},
	}
	c := MapRecords(table)[0]
	if c.Fields[internal.FieldBrand] != "Volkswagen" {
		t.Fatalf("brand=%q", c.Fields[internal.FieldBrand])
	}
	if c.Fields[internal.FieldModel] != "Golf GTI" {
		t.Fatalf("model=%q", c.Fields[internal.FieldModel])
	}
}

func TestMapRecordsCombinedSingleToken(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Merk en model"},
		Rows:    [][]string{{"AA-11-BB", "Volkswagen"}},
	}
	c := MapRecords(table)[0]
	if c.Fields[internal.FieldBrand] != "Volkswagen" {
		t.Fatalf("brand=%q", c.Fields[internal.FieldBrand])
	}
	model, ok := c.Get(internal.FieldModel)
	if !ok || model != "" {
		t.Fatalf("model should be present but empty, got %q ok=%v", model, ok)
	}
}

func TestMapRecordsCombinedSkippedWhenBrandPresent(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Merk", "Merk en model"},
		Rows:    [][]string{{"AA-11-BB", "Toyota", "Volkswagen Golf"}},
	}
	c := MapRecords(table)[0]
	if c.Fields[internal.FieldBrand] != "Toyota" {
		t.Fatalf("brand=%q", c.Fields[internal.FieldBrand])
	}
	if _, ok := c.Get(internal.FieldModel); ok {
		t.Fatal("model should stay absent when split is skipped")
	}
}

func TestMapRecordsTireSizeFromRemarks(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Opmerkingen"},
		Rows:    [][]string{{"AA-11-BB", "oil change done, 205/55R16 winter"}},
	}
	c := MapRecords(table)[0]
	if c.Fields[internal.FieldTireSize] != "205/55R16" {
		t.Fatalf("tireSize=%q", c.Fields[internal.FieldTireSize])
	}
}

func TestMapRecordsTireSizeNormalized(t *testing.T) {
	cases := []struct {
		name    string
		remarks string
		want    string
	}{
		{name: "spaced", remarks: "banden 205/55 r 16 vervangen", want: "205/55R16"},
		{name: "slashes", remarks: "maat 195/65/15", want: "195/65/15"},
		{name: "no match", remarks: "geen bijzonderheden", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := RawTable{
				Headers: []string{"Kenteken", "Opmerkingen"},
				Rows:    [][]string{{"AA-11-BB", tc.remarks}},
			}
			c := MapRecords(table)[0]
			got, ok := c.Get(internal.FieldTireSize)
			if tc.want == "" {
				if ok {
					t.Fatalf("expected absent, got %q", got)
				}
				return
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestMapRecordsTireSizeDirectColumnWins(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Bandenmaat", "Opmerkingen"},
		Rows:    [][]string{{"AA-11-BB", "225/45R17", "oude set 205/55R16"}},
	}
	c := MapRecords(table)[0]
	if c.Fields[internal.FieldTireSize] != "225/45R17" {
		t.Fatalf("tireSize=%q", c.Fields[internal.FieldTireSize])
	}
}

func TestMapRecordsDropsFullyBlankRows(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Merk"},
		Rows: [][]string{
			{"AA-11-BB", "Toyota"},
			{"", ""},
			{"   ", ""},
		},
	}
	candidates := MapRecords(table)
	if len(candidates) != 1 {
		t.Fatalf("len=%d", len(candidates))
	}
	if candidates[0].Row != 1 {
		t.Fatalf("row=%d", candidates[0].Row)
	}
}

func TestMapRecordsKeepsUnmappableRowWithContent(t *testing.T) {
	// Only unrecognized columns, but the row has content: it must reach
	// validation and fail there, not vanish.
	table := RawTable{
		Headers: []string{"Kleur"},
		Rows:    [][]string{{"rood"}},
	}
	candidates := MapRecords(table)
	if len(candidates) != 1 {
		t.Fatalf("len=%d", len(candidates))
	}
	if len(candidates[0].Fields) != 0 {
		t.Fatalf("fields=%v", candidates[0].Fields)
	}
}

func TestMapRecordsOrderPreserved(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken"},
		Rows:    [][]string{{"AA-11-BB"}, {"CC-22-DD"}, {"EE-33-FF"}},
	}
	candidates := MapRecords(table)
	if len(candidates) != 3 {
		t.Fatalf("len=%d", len(candidates))
	}
	for i, plate := range []string{"AA-11-BB", "CC-22-DD", "EE-33-FF"} {
		if candidates[i].Plate() != plate || candidates[i].Row != i+1 {
			t.Fatalf("candidate %d: %+v", i, candidates[i])
		}
	}
}

func TestMapRecordsDeterministic(t *testing.T) {
	table := RawTable{
		Headers: []string{"Kenteken", "Merk en model", "Opmerkingen"},
		Rows: [][]string{
			{"AA-11-BB", "Volkswagen Golf", "set 205/55R16"},
			{"CC-22-DD", "Ford", ""},
		},
	}
	first := MapRecords(table)
	second := MapRecords(table)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("mapping not deterministic:\n%+v\n%+v", first, second)
	}
}

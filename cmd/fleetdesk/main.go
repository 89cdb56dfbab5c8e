package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fleetdesk/internal"
	"fleetdesk/internal/config"
	"fleetdesk/internal/pipeline"
	"fleetdesk/internal/registry"
	"fleetdesk/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "import:file":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input file path")
		format := fs.String("format", "", "csv|xlsx|html")
		out := fs.String("out", "", "optional review xlsx path")
		dryRun := fs.Bool("dry-run", false, "map and validate without importing")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *format == "" {
			must(fmt.Errorf("--input and --format are required"))
		}

		raw, err := os.ReadFile(*input)
		must(err)

		svc := pipeline.NewImportService(db)
		if *dryRun {
			candidates, warnings, err := svc.Preview(pipeline.FileFormat(*format), raw)
			must(err)
			for _, w := range warnings {
				fmt.Printf("warning: %s\n", w)
			}
			validCount := 0
			for _, c := range candidates {
				if c.Valid {
					validCount++
					continue
				}
				fmt.Printf("row %d invalid: %s\n", c.Row, strings.Join(c.Errors, "; "))
			}
			fmt.Printf("dry run done rows=%d valid=%d invalid=%d\n", len(candidates), validCount, len(candidates)-validCount)
			return
		}

		start := time.Now()
		outcome, err := svc.ImportFile(ctx, pipeline.FileFormat(*format), raw)
		must(err)
		recordRun(db, "file", start, outcome)
		printOutcome(outcome)

		if strings.TrimSpace(*out) != "" {
			must(pipeline.ExportOutcomeToXLSX(outcome, *out))
			fmt.Printf("review sheet written to %s\n", *out)
		}
	case "import:plates":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "plate list file (.txt or .pdf)")
		plateArg := fs.String("plates", "", "comma-separated plates")
		out := fs.String("out", "", "optional review xlsx path")
		_ = fs.Parse(os.Args[2:])

		var plates []string
		switch {
		case strings.TrimSpace(*plateArg) != "":
			plates = pipeline.ExtractPlatesFromText(strings.ReplaceAll(*plateArg, ",", "\n"))
		case strings.TrimSpace(*input) != "":
			raw, err := os.ReadFile(*input)
			must(err)
			if strings.EqualFold(filepath.Ext(*input), ".pdf") {
				plates, err = pipeline.ExtractPlatesFromPDF(raw)
				must(err)
			} else {
				plates = pipeline.ExtractPlatesFromText(string(raw))
			}
		default:
			must(fmt.Errorf("--input or --plates is required"))
		}
		if len(plates) == 0 {
			must(fmt.Errorf("no plates found in input"))
		}

		client := registry.NewClient(cfg)
		svc := pipeline.NewPlateImportService(client, db)

		start := time.Now()
		outcome, err := svc.ImportPlates(ctx, plates)
		must(err)
		recordRun(db, "plates", start, outcome)
		printOutcome(outcome)

		if strings.TrimSpace(*out) != "" {
			must(pipeline.ExportOutcomeToXLSX(outcome, *out))
			fmt.Printf("review sheet written to %s\n", *out)
		}
	case "fleet:list":
		vehicles, err := db.ListVehicles(ctx)
		must(err)
		for _, v := range vehicles {
			fmt.Printf("%s  %s %s  (%s)\n", v.LicensePlate, v.Fields[internal.FieldBrand], v.Fields[internal.FieldModel], v.ID)
		}
		fmt.Printf("total vehicles: %d\n", len(vehicles))
	default:
		usage()
		os.Exit(1)
	}
}

func recordRun(db *storage.DB, source string, start time.Time, outcome internal.ImportOutcome) {
	counts := map[string]int{
		"imported": len(outcome.Imported),
		"failed":   len(outcome.Failed),
	}
	timings := map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}
	_ = db.InsertRun(traceID(), source, timings, counts)
	_ = db.SetMetadata("import.last_completed", time.Now().UTC().Format(time.RFC3339))
}

func printOutcome(outcome internal.ImportOutcome) {
	for _, w := range outcome.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, rec := range outcome.Failed {
		fmt.Printf("row %d failed: %s\n", rec.Source.Row, rec.Reason)
	}
	fmt.Printf("import done imported=%d failed=%d\n", len(outcome.Imported), len(outcome.Failed))
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func usage() {
	fmt.Println("usage: fleetdesk <command>")
	fmt.Println("commands:")
	fmt.Println("  import:file --input=fleet.csv --format=csv|xlsx|html [--out=review.xlsx] [--dry-run]")
	fmt.Println("  import:plates --input=plates.txt|plates.pdf | --plates=AA-11-BB,CC-22-DD [--out=review.xlsx]")
	fmt.Println("  fleet:list")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

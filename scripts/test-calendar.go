package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/wa-dockets/internal/calendar"
	"github.com/pfrederiksen/wa-dockets/internal/config"
	"github.com/pfrederiksen/wa-dockets/internal/docket"
	"github.com/pfrederiksen/wa-dockets/internal/page"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

func main() {
	path := "testdata/fixtures/docket_division1.html"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening page: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	p, err := page.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading page: %v\n", err)
		os.Exit(1)
	}
	d, err := docket.ParsePage(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing docket: %v\n", err)
		os.Exit(1)
	}

	// The sample page is a Division I docket
	cases := make([]storage.StoredCase, 0, len(d.Cases))
	for _, rec := range d.Cases {
		cases = append(cases, storage.StoredCase{Division: 1, CaseRecord: rec})
	}

	icsContent := calendar.GenerateICS(cases, calendar.Options{
		Name: "Sample docket",
		DocketURL: func(division int, date time.Time) string {
			return config.Division{Number: division, URL: config.DefaultDivisionURL(division)}.DocketURL(date)
		},
	})

	filename := "test-docket.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file with %d events: %s\n\n", len(cases), filename)
	fmt.Println("Open it with a calendar app or import it into Google Calendar, Apple Calendar or Outlook.")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}

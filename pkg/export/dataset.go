// Package export renders tabular sections, such as the rooms of a weekly
// timetable grid, as CSV or PDF.
package export

import "fmt"

// Dataset is one titled table. Rows are keyed by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

func validate(sections []Dataset) error {
	if len(sections) == 0 {
		return fmt.Errorf("export requires at least one section")
	}
	for i, s := range sections {
		if len(s.Headers) == 0 {
			return fmt.Errorf("section %d requires at least one header", i)
		}
	}
	return nil
}

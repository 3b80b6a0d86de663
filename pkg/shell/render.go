package shell

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/ssargent/classdb/pkg/codec"
	"github.com/ssargent/classdb/pkg/config"
	"github.com/ssargent/classdb/pkg/store"
)

func (s *Session) jsonOutput() bool {
	return s.cfg.Output.Format == config.FormatJSON
}

func (s *Session) writeJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderRecords prints records as a table or a JSON array
func (s *Session) renderRecords(records []store.Record) error {
	if s.jsonOutput() {
		if records == nil {
			records = []store.Record{}
		}
		return s.writeJSON(records)
	}

	table := tablewriter.NewWriter(s.out)
	table.Header("ID", "Name", "Programme", "Mark")
	for _, r := range records {
		row := []string{strconv.Itoa(r.ID), r.Name, r.Programme, codec.FormatMark(r.Mark)}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render record %d: %w", r.ID, err)
		}
	}
	return table.Render()
}

type summaryView struct {
	Count   int          `json:"count"`
	Average float32      `json:"average"`
	Highest store.Record `json:"highest"`
	Lowest  store.Record `json:"lowest"`
}

func (s *Session) renderSummary(sum store.Summary) error {
	if s.jsonOutput() {
		return s.writeJSON(summaryView{
			Count:   sum.Count,
			Average: sum.Average,
			Highest: sum.Highest,
			Lowest:  sum.Lowest,
		})
	}

	s.printf("SUMMARY")
	fmt.Fprintf(s.out, "Total students: %d\n", sum.Count)
	fmt.Fprintf(s.out, "Average mark: %.2f\n", sum.Average)
	fmt.Fprintf(s.out, "Highest: %.1f (%s)\n", sum.Highest.Mark, sum.Highest.Name)
	fmt.Fprintf(s.out, "Lowest : %.1f (%s)\n", sum.Lowest.Mark, sum.Lowest.Name)
	return nil
}

package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

func writeCSV(w io.Writer, t table) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(t.records()); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", t.name, err)
	}
	return nil
}

func writeCSVFile(t table, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := writeCSV(file, t); err != nil {
		return err
	}
	return file.Close()
}

func csvString(t table) (string, error) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeTextTable prints t as aligned columns followed by a blank line
func writeTextTable(w io.Writer, t table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	records := t.records()

	fmt.Fprintln(tw, strings.Join(records[0], "\t"))
	rule := make([]string, len(records[0]))
	for i, h := range records[0] {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))

	for _, record := range records[1:] {
		fmt.Fprintln(tw, strings.Join(record, "\t"))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

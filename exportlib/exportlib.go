// Package exportlib writes ranked word lists to CSV and plain text files
package exportlib

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"goTopWords/iolib"
	"goTopWords/ranklib"
	"goTopWords/stringlib"
)

// Column names of the exported table
const (
	ColRank = "Rank"
	ColWord = "Word"
	ColPOS  = "Part_of_Speech"
)

// DefaultPreviewRows is the number of records shown after an export
const DefaultPreviewRows = 10

// Header returns the exported column names
func Header(withPOS bool) []string {
	if withPOS {
		return []string{ColRank, ColWord, ColPOS}
	}
	return []string{ColRank, ColWord}
}

func row(r ranklib.WordRecord, withPOS bool) []string {
	if withPOS {
		return []string{strconv.Itoa(r.Rank), r.Word, r.POS}
	}
	return []string{strconv.Itoa(r.Rank), r.Word}
}

// EncodeCSV renders records as CSV with a header line
func EncodeCSV(records []ranklib.WordRecord, withPOS bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(Header(withPOS)); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(row(r, withPOS)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV saves records into filename, replacing it atomically
func WriteCSV(filename string, records []ranklib.WordRecord, withPOS bool) error {
	b, err := EncodeCSV(records, withPOS)
	if err != nil {
		return err
	}
	return iolib.WriteFileAtomic(filename, b, 0644)
}

// TextFilename derives the plain text file name from the CSV file name
func TextFilename(csvFilename string) string {
	return stringlib.ReplaceExt(csvFilename, ".csv", ".txt")
}

// WriteText saves the words of records, one per line, in rank order
func WriteText(filename string, records []ranklib.WordRecord) error {
	return iolib.Lines2file(ranklib.Words(records), filename)
}

// Preview prints the first n records as a table with the exported columns
func Preview(w io.Writer, records []ranklib.WordRecord, withPOS bool, n int) {
	if n > len(records) {
		n = len(records)
	}
	if n < 0 {
		n = 0
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(Header(withPOS))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range records[:n] {
		table.Append(row(r, withPOS))
	}
	table.Render()
}

// Package ranklib turns an ordered word list into ranked records
package ranklib

// DefaultLimit is the number of words kept from the source list
const DefaultLimit = 5000

// WordRecord is one row of the exported list. POS is empty until the list
// has been annotated.
type WordRecord struct {
	Rank int
	Word string
	POS  string
}

// Rank keeps the first min(limit, len(tokens)) tokens, ranked from 1 in
// source order. A limit <= 0 yields an empty list.
func Rank(tokens []string, limit int) []WordRecord {
	n := len(tokens)
	if limit < n {
		n = limit
	}
	if n <= 0 {
		return []WordRecord{}
	}

	records := make([]WordRecord, n)
	for i, w := range tokens[:n] {
		records[i] = WordRecord{Rank: i + 1, Word: w}
	}
	return records
}

// Words returns the words of records in rank order
func Words(records []WordRecord) []string {
	words := make([]string, len(records))
	for i, r := range records {
		words[i] = r.Word
	}
	return words
}

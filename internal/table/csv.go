package table

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
)

// candidate delimiters checked by the sniffer, in preference order
var csvDelimiters = []rune{',', ';', '\t'}

// loadCSV reads an RFC 4180-style CSV document. Rows may have unequal
// lengths; the grid keeps each value at its source position.
func loadCSV(source string, r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)

	sample, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, NewFormatError(source, "failed to read CSV data", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(string(sample))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, NewFormatError(source, "invalid CSV", err)
	}
	if len(rows) == 0 {
		return nil, NewFormatError(source, "CSV contains no rows", nil)
	}

	g := NewGrid()
	for ridx, row := range rows {
		for cidx, text := range row {
			g.Set(ridx, cidx, strings.TrimSpace(text))
		}
	}
	return g, nil
}

// sniffDelimiter picks the candidate delimiter that occurs most often
// outside quoted sections of the first line. Comma wins ties.
func sniffDelimiter(sample string) rune {
	if idx := strings.IndexByte(sample, '\n'); idx >= 0 {
		sample = sample[:idx]
	}

	best := ','
	bestCount := -1
	for _, delim := range csvDelimiters {
		count := 0
		inQuotes := false
		for _, ch := range sample {
			switch {
			case ch == '"':
				inQuotes = !inQuotes
			case ch == delim && !inQuotes:
				count++
			}
		}
		if count > bestCount {
			best = delim
			bestCount = count
		}
	}
	return best
}

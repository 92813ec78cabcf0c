// Package table loads semi-structured tabular documents into a uniform
// sparse grid of positioned cells.
//
// Supported sources:
//   - CSV files (delimiter sniffed between comma, semicolon and tab)
//   - HTML documents containing a <table> (colspan/rowspan expanded)
//   - XLSX workbooks (first sheet, merged cells expanded)
//   - http(s) URLs, fetched and parsed as HTML
//
// A source that cannot be parsed as any of these yields a FormatError.
package table

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds the HTTP fetch of a remote table source.
const DefaultFetchTimeout = 30 * time.Second

// Load reads the table at the given path or URL into a Grid.
// The format is chosen by URL scheme or file extension.
func Load(source string) (*Grid, error) {
	lower := strings.ToLower(source)

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return loadURL(source)
	}

	switch filepath.Ext(lower) {
	case ".csv":
		f, err := os.Open(source)
		if err != nil {
			return nil, NewFormatError(source, "cannot open file", err)
		}
		defer func() { _ = f.Close() }()
		return loadCSV(source, f)

	case ".htm", ".html":
		f, err := os.Open(source)
		if err != nil {
			return nil, NewFormatError(source, "cannot open file", err)
		}
		defer func() { _ = f.Close() }()
		return loadHTML(source, f)

	case ".xlsx":
		return loadXLSX(source)

	default:
		return nil, NewFormatError(source, "unsupported table format (want .csv, .html, .xlsx or an http(s) URL)", nil)
	}
}

// loadURL fetches a remote document and parses it as an HTML table.
func loadURL(source string) (*Grid, error) {
	client := &http.Client{Timeout: DefaultFetchTimeout}

	resp, err := client.Get(source)
	if err != nil {
		return nil, NewFormatError(source, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewFormatError(source, fmt.Sprintf("request returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewFormatError(source, "failed to read response body", err)
	}

	return loadHTML(source, strings.NewReader(string(body)))
}

package table

import (
	"strings"
	"testing"
)

// TestLoadHTMLBasic tests loading a simple table with thead/tbody
func TestLoadHTMLBasic(t *testing.T) {
	doc := `<html><body><table>
		<thead><tr><th>unit</th><th>gpio1</th></tr></thead>
		<tbody>
			<tr><td>dev1</td><td>on</td></tr>
			<tr><td>dev2</td><td>off</td></tr>
		</tbody>
	</table></body></html>`

	g, err := loadHTML("test", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loadHTML() error = %v", err)
	}

	want := map[[2]int]string{
		{0, 0}: "unit", {0, 1}: "gpio1",
		{1, 0}: "dev1", {1, 1}: "on",
		{2, 0}: "dev2", {2, 1}: "off",
	}
	for pos, text := range want {
		if got := g.Text(pos[0], pos[1]); got != text {
			t.Errorf("Text(%d,%d) = %q, want %q", pos[0], pos[1], got, text)
		}
	}
}

// TestLoadHTMLColspan tests that a colspan cell covers every column
func TestLoadHTMLColspan(t *testing.T) {
	doc := `<table>
		<tr><td colspan="3">all</td></tr>
		<tr><td>a</td><td>b</td><td>c</td></tr>
	</table>`

	g, err := loadHTML("test", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loadHTML() error = %v", err)
	}

	for col := 0; col < 3; col++ {
		if got := g.Text(0, col); got != "all" {
			t.Errorf("Text(0,%d) = %q, want %q", col, got, "all")
		}
	}
}

// TestLoadHTMLRowspan tests that a rowspan cell shifts later rows
func TestLoadHTMLRowspan(t *testing.T) {
	doc := `<table>
		<tr><td rowspan="2">side</td><td>r0</td></tr>
		<tr><td>r1</td></tr>
	</table>`

	g, err := loadHTML("test", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loadHTML() error = %v", err)
	}

	if got := g.Text(0, 0); got != "side" {
		t.Errorf("Text(0,0) = %q, want %q", got, "side")
	}
	if got := g.Text(1, 0); got != "side" {
		t.Errorf("Text(1,0) = %q, want replicated %q", got, "side")
	}
	if got := g.Text(1, 1); got != "r1" {
		t.Errorf("Text(1,1) = %q, want %q (cell shifted past the rowspan)", got, "r1")
	}
}

// TestLoadHTMLNoTable tests the FormatError path
func TestLoadHTMLNoTable(t *testing.T) {
	_, err := loadHTML("test", strings.NewReader("<html><body><p>nothing here</p></body></html>"))
	if !IsFormatError(err) {
		t.Errorf("expected FormatError, got %v", err)
	}
}

// TestCellTextEscapes tests literal \r and \n conversion
func TestCellTextEscapes(t *testing.T) {
	doc := `<table><tr><td>line1\nline2</td></tr></table>`

	g, err := loadHTML("test", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loadHTML() error = %v", err)
	}
	if got := g.Text(0, 0); got != "line1\nline2" {
		t.Errorf("Text(0,0) = %q, want embedded newline", got)
	}
}

// TestLoadHTMLNestedMarkup tests text extraction through inline tags
func TestLoadHTMLNestedMarkup(t *testing.T) {
	doc := `<table><tr><td><b>dev</b>1</td></tr></table>`

	g, err := loadHTML("test", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loadHTML() error = %v", err)
	}
	if got := g.Text(0, 0); got != "dev1" {
		t.Errorf("Text(0,0) = %q, want %q", got, "dev1")
	}
}

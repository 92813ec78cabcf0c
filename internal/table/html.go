package table

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// loadHTML parses an HTML document and loads its first <table> element.
// Cells spanning multiple rows or columns (colspan/rowspan) have their
// text replicated into every coordinate they cover.
func loadHTML(source string, r io.Reader) (*Grid, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, NewFormatError(source, "invalid HTML", err)
	}

	tbl := findElement(doc, "table")
	if tbl == nil {
		return nil, NewFormatError(source, "document contains no <table>", nil)
	}

	g := NewGrid()
	occupied := make(map[[2]int]bool)

	for ridx, tr := range tableRows(tbl) {
		col := 0
		for _, cell := range rowCells(tr) {
			// skip coordinates claimed by a rowspan from above
			for occupied[[2]int{ridx, col}] {
				col++
			}

			text := cellText(cell)
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")

			for dr := 0; dr < rowspan; dr++ {
				for dc := 0; dc < colspan; dc++ {
					g.Set(ridx+dr, col+dc, text)
					occupied[[2]int{ridx + dr, col + dc}] = true
				}
			}
			col += colspan
		}
	}

	if g.Len() == 0 && g.Rows() == 0 {
		return nil, NewFormatError(source, "table contains no rows", nil)
	}
	return g, nil
}

// findElement returns the first element with the given tag in document order.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// tableRows collects the <tr> elements of a table, looking through
// <thead>/<tbody>/<tfoot> wrappers but not into nested tables.
func tableRows(tbl *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			switch child.Data {
			case "tr":
				rows = append(rows, child)
			case "thead", "tbody", "tfoot":
				walk(child)
			}
		}
	}
	walk(tbl)
	return rows
}

// rowCells collects the <td> and <th> children of a row.
func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for child := tr.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && (child.Data == "td" || child.Data == "th") {
			cells = append(cells, child)
		}
	}
	return cells
}

// cellText extracts the concatenated text content of a cell.
// Literal "\r" and "\n" escape sequences in the source text are
// converted to real control characters, matching how multi-line
// values are authored in the source tables.
func cellText(cell *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(cell)

	text := strings.TrimSpace(sb.String())
	text = strings.ReplaceAll(text, `\r`, "\r")
	text = strings.ReplaceAll(text, `\n`, "\n")
	return text
}

// spanAttr reads a colspan/rowspan attribute, defaulting to 1.
func spanAttr(cell *html.Node, name string) int {
	for _, attr := range cell.Attr {
		if attr.Key == name {
			if v, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil && v > 1 {
				return v
			}
			return 1
		}
	}
	return 1
}

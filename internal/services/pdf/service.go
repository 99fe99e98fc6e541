package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Service renders markdown analysis reports to PDF
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new PDF service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// ConvertMarkdownToPDF converts markdown content to a PDF byte slice.
// The title parameter is kept for PDF metadata; the visible title is
// expected as an H1 heading inside the markdown itself.
func (s *Service) ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	s.logger.Debug().
		Int("markdown_len", len(markdown)).
		Str("title", title).
		Msg("Converting markdown to PDF")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetTitle(title, true)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 9)

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
	)

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	renderer := &pdfRenderer{
		pdf:    pdf,
		source: source,
		font:   "Arial",
		size:   9,
	}

	if err := renderer.render(doc); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF")
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("PDF generated")
	return buf.Bytes(), nil
}

type pdfRenderer struct {
	pdf       *fpdf.Fpdf
	source    []byte
	font      string
	size      float64
	bold      bool
	italic    bool
	listLevel int
}

func (r *pdfRenderer) render(node ast.Node) error {
	return ast.Walk(node, r.walk)
}

func (r *pdfRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(r.font, style, r.size)
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindHeading:
		return r.handleHeading(n.(*ast.Heading), entering)
	case ast.KindParagraph:
		if !entering {
			r.pdf.Ln(7)
		}
	case ast.KindText:
		if entering {
			r.pdf.Write(5, string(n.Text(r.source)))
		}
	case ast.KindEmphasis:
		em := n.(*ast.Emphasis)
		if em.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case ast.KindList:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			if r.listLevel == 0 {
				r.pdf.Ln(2)
			}
		}
	case ast.KindListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(15 + float64(r.listLevel)*5.0)
			r.pdf.Write(5, "- ")
		}
	case ast.KindThematicBreak:
		if entering {
			r.pdf.Ln(2)
			r.pdf.Line(15, r.pdf.GetY(), 195, r.pdf.GetY())
			r.pdf.Ln(2)
		}
	case extast.KindTable:
		return r.handleTable(n.(*extast.Table), entering)
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) handleHeading(n *ast.Heading, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.pdf.Ln(6)
		size := 10.0
		switch n.Level {
		case 1:
			size = 14
		case 2:
			size = 12
		case 3:
			size = 11
		}
		r.pdf.SetFont(r.font, "B", size)
	} else {
		r.pdf.Ln(6)
		r.updateFont()
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) handleTable(n *extast.Table, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var rows [][]string
	var collect func(node ast.Node)
	collect = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if tr, ok := child.(*extast.TableRow); ok {
				rows = append(rows, r.extractRow(tr))
			} else if _, ok := child.(*extast.TableHeader); ok {
				collect(child)
			}
		}
	}
	collect(n)

	r.renderTable(rows)
	return ast.WalkSkipChildren, nil
}

func (r *pdfRenderer) extractRow(n *extast.TableRow) []string {
	var row []string
	for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			row = append(row, string(cell.Text(r.source)))
		}
	}
	return row
}

func (r *pdfRenderer) renderTable(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	const (
		pageWidth  = 180.0
		fontSize   = 8.0
		lineHeight = 4.0
		maxLines   = 8
	)
	numCols := len(rows[0])
	colWidth := pageWidth / float64(numCols)

	r.pdf.Ln(2)

	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(r.font, "B", fontSize)
			r.pdf.SetFillColor(230, 230, 230)
		} else {
			r.pdf.SetFont(r.font, "", fontSize)
			r.pdf.SetFillColor(255, 255, 255)
		}

		// Row height follows the tallest wrapped cell
		tallest := 1
		for _, cell := range row {
			lines := r.wrapLines(cell, colWidth-2)
			if len(lines) > tallest {
				tallest = len(lines)
			}
		}
		if tallest > maxLines {
			tallest = maxLines
		}

		rowHeight := float64(tallest)*lineHeight + 2
		startY := r.pdf.GetY()
		startX := r.pdf.GetX()

		if startY+rowHeight > 282 {
			r.pdf.AddPage()
			startY = r.pdf.GetY()
		}

		for j, cell := range row {
			if j >= numCols {
				break
			}
			x := startX + float64(j)*colWidth
			if i == 0 {
				r.pdf.Rect(x, startY, colWidth, rowHeight, "FD")
			} else {
				r.pdf.Rect(x, startY, colWidth, rowHeight, "D")
			}

			r.pdf.SetXY(x+1, startY+1)
			lines := r.wrapLines(cell, colWidth-2)
			for k := 0; k < len(lines) && k < tallest; k++ {
				line := lines[k]
				if k == tallest-1 && len(lines) > tallest {
					for r.pdf.GetStringWidth(line+"...") > colWidth-2 && len(line) > 3 {
						line = line[:len(line)-1]
					}
					line += "..."
				}
				r.pdf.CellFormat(colWidth-2, lineHeight, line, "", 2, "L", false, 0, "")
			}
		}

		r.pdf.SetXY(startX, startY+rowHeight)
	}

	r.pdf.Ln(3)
	r.updateFont()
}

// wrapLines splits text into lines that fit within width, measured with the
// current font.
func (r *pdfRenderer) wrapLines(text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	spaceWidth := r.pdf.GetStringWidth(" ")
	var lines []string
	current := ""
	currentWidth := 0.0

	for _, word := range words {
		wordWidth := r.pdf.GetStringWidth(word)
		switch {
		case current == "":
			current = word
			currentWidth = wordWidth
		case currentWidth+spaceWidth+wordWidth <= width:
			current += " " + word
			currentWidth += spaceWidth + wordWidth
		default:
			lines = append(lines, current)
			current = word
			currentWidth = wordWidth
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	return lines
}

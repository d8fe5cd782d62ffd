package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Layout in millimetres and points.
const (
	lineHeight  = 5.5
	codeHeight  = 4.5
	listIndent  = 6.0
	bodySize    = 11
	codeSize    = 9
	defaultEdge = 25.4
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12}

// NativeRenderer draws the document with gofpdf, without any external
// tools. It covers headings, paragraphs, nested lists, quotes and code.
type NativeRenderer struct {
	Options Options
}

// Name returns "native".
func (n *NativeRenderer) Name() string { return "native" }

// Render writes the PDF to output.
func (n *NativeRenderer) Render(ctx context.Context, markdown, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := n.Write(f, markdown); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write renders markdown as PDF to w.
func (n *NativeRenderer) Write(w io.Writer, markdown string) error {
	src := []byte(Preprocess(markdown))
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	edge := marginMM(n.Options.Margin)
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(edge, edge, edge)
	pdf.SetAutoPageBreak(true, edge)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-edge / 2)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pw := &pdfWriter{pdf: pdf, src: src, tr: pdf.UnicodeTranslatorFromDescriptor(""), left: edge}
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		pw.block(c, 0)
	}
	return pdf.Output(w)
}

// marginMM converts "1in", "2cm", "20mm" or "72pt" to millimetres.
func marginMM(m string) float64 {
	m = strings.TrimSpace(m)
	units := map[string]float64{"in": 25.4, "cm": 10, "mm": 1, "pt": 25.4 / 72}
	for suffix, scale := range units {
		if v, ok := strings.CutSuffix(m, suffix); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
				return f * scale
			}
		}
	}
	return defaultEdge
}

type pdfWriter struct {
	pdf  *gofpdf.Fpdf
	src  []byte
	tr   func(string) string
	left float64
}

func (p *pdfWriter) text(x float64, h float64, s string) {
	p.pdf.SetX(p.left + x)
	p.pdf.MultiCell(0, h, p.tr(s), "", "L", false)
}

func (p *pdfWriter) block(n ast.Node, indent float64) {
	switch node := n.(type) {
	case *ast.Heading:
		size, ok := headingSizes[node.Level]
		if !ok {
			size = bodySize
		}
		p.pdf.Ln(2)
		p.pdf.SetFont("Helvetica", "B", size)
		p.text(indent, size*0.5, inlineText(node, p.src))
		p.pdf.Ln(1)
	case *ast.Paragraph, *ast.TextBlock:
		p.pdf.SetFont("Helvetica", "", bodySize)
		p.text(indent, lineHeight, inlineText(node, p.src))
		p.pdf.Ln(1.5)
	case *ast.List:
		p.list(node, indent)
		p.pdf.Ln(1.5)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		p.pdf.SetFont("Courier", "", codeSize)
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			p.text(indent+listIndent/2, codeHeight, strings.TrimRight(string(seg.Value(p.src)), "\n"))
		}
		p.pdf.Ln(1.5)
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			p.block(c, indent+listIndent)
		}
	case *ast.ThematicBreak:
		p.pdf.Ln(lineHeight)
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			p.block(c, indent)
		}
	}
}

func (p *pdfWriter) list(l *ast.List, indent float64) {
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "-"
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + "."
			num++
		}
		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch cc := c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				p.pdf.SetFont("Helvetica", "", bodySize)
				s := inlineText(cc, p.src)
				if first {
					s = marker + " " + s
					first = false
				}
				p.text(indent+listIndent, lineHeight, s)
			case *ast.List:
				p.list(cc, indent+listIndent)
			default:
				p.block(c, indent+listIndent)
			}
		}
	}
}

// inlineText flattens the inline children of n to plain text.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			case *ast.AutoLink:
				buf.Write(t.URL(src))
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

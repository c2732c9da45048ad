package pdf

import (
	"context"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"
)

// StructuredFallback is the second tier: it strips the markup down to plain
// text and hand-assembles a small but syntactically valid PDF around it.
// It depends on nothing that can be absent at runtime.
type StructuredFallback struct {
	Letterhead string
}

func NewStructuredFallback() *StructuredFallback {
	letterhead := os.Getenv("ORG_NAME")
	if letterhead == "" {
		letterhead = "RoomLedger Property Management"
	}
	return &StructuredFallback{Letterhead: letterhead}
}

func (s *StructuredFallback) Name() string { return "structured fallback" }

const (
	maxFallbackChars = 4000
	maxFallbackLines = 52
	fallbackLineLen  = 92
)

var (
	scriptStyleRE = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRE         = regexp.MustCompile(`<[^>]*>`)
	whitespaceRE  = regexp.MustCompile(`\s+`)
)

func (s *StructuredFallback) Render(ctx context.Context, htmlContent string) ([]byte, error) {
	text := StripMarkup(htmlContent)
	if len(text) > maxFallbackChars {
		text = text[:maxFallbackChars] + " ... [content truncated]"
	}
	if text == "" {
		text = "(no lease content)"
	}
	return buildSimplePDF(s.Letterhead, wrapText(text, fallbackLineLen, maxFallbackLines)), nil
}

// StripMarkup removes tags and collapses whitespace, leaving readable text.
func StripMarkup(htmlContent string) string {
	text := scriptStyleRE.ReplaceAllString(htmlContent, " ")
	text = tagRE.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func wrapText(text string, width, maxLines int) []string {
	words := strings.Fields(text)
	var lines []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+1+len(word) > width {
			lines = append(lines, current.String())
			current.Reset()
			if len(lines) >= maxLines {
				return lines
			}
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 && len(lines) < maxLines {
		lines = append(lines, current.String())
	}
	return lines
}

// pdfWriter assembles numbered PDF objects while tracking byte offsets for
// the cross-reference table.
type pdfWriter struct {
	buf     strings.Builder
	offsets []int
}

func (w *pdfWriter) writeHeader() {
	w.buf.WriteString("%PDF-1.4\n")
}

func (w *pdfWriter) writeObject(body string) int {
	w.offsets = append(w.offsets, w.buf.Len())
	num := len(w.offsets)
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	return num
}

func (w *pdfWriter) finish(rootObj int) []byte {
	xrefStart := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", len(w.offsets)+1)
	w.buf.WriteString("0000000000 65535 f \n")
	for _, offset := range w.offsets {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(w.offsets)+1, rootObj, xrefStart)
	return []byte(w.buf.String())
}

// escapePDFText makes a string safe inside PDF parentheses. Non-ASCII runes
// are replaced; the fallback tiers only promise legibility, not typography.
func escapePDFText(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 32 || r > 126:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// buildSimplePDF emits a one-page document: bold letterhead, body lines,
// two standard font resources. Letter-size media box, 1in left margin.
func buildSimplePDF(letterhead string, bodyLines []string) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F2 14 Tf\n72 760 Td\n")
	fmt.Fprintf(&content, "(%s) Tj\nET\n", escapePDFText(letterhead))
	content.WriteString("BT\n/F1 10 Tf\n72 736 Td\n13 TL\n")
	for _, line := range bodyLines {
		fmt.Fprintf(&content, "(%s) Tj\nT*\n", escapePDFText(line))
	}
	content.WriteString("ET")

	stream := content.String()

	w := &pdfWriter{}
	w.writeHeader()
	root := w.writeObject("<< /Type /Catalog /Pages 2 0 R >>")
	w.writeObject("<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	w.writeObject("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 6 0 R >>")
	w.writeObject("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	w.writeObject("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>")
	w.writeObject(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	return w.finish(root)
}

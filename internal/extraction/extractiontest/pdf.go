// Package extractiontest builds small PDF documents for tests.
package extractiontest

import (
	"bytes"
	"fmt"
	"strings"
)

// BuildPDF assembles numbered objects into a PDF with a correct cross-reference table.
// Object 1 must be the catalog.
func BuildPDF(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)
	return buf.Bytes()
}

// ResumePDF returns a one-page document showing text with one URI link annotation per link.
func ResumePDF(text string, links ...string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapeString(text))

	annots := make([]string, 0, len(links))
	for i := range links {
		annots = append(annots, fmt.Sprintf("%d 0 R", 6+i))
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R /Annots [" + strings.Join(annots, " ") + "] >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}
	for i, link := range links {
		y := 700 - 20*i
		objects = append(objects, fmt.Sprintf("<< /Type /Annot /Subtype /Link /Rect [72 %d 200 %d] /A << /S /URI /URI (%s) >> >>", y, y+12, escapeString(link)))
	}
	return BuildPDF(objects)
}

func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

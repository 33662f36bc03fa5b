package extraction

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/resume-tailor/internal/extraction/extractiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resumePDF(annots string) []byte {
	content := "BT /F1 12 Tf 72 720 Td (Jane Doe) Tj ET"
	return extractiontest.BuildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R /Annots " + annots + " >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Annot /Subtype /Link /Rect [72 700 200 712] /A << /S /URI /URI (https://github.com/janedoe) >> >>",
		"<< /Type /Annot /Subtype /Link /Rect [72 680 200 692] /A << /S /GoTo /D [3 0 R /Fit] >> >>",
		"<< /Type /Annot /Subtype /Link /Rect [72 660 200 672] /A << /S /URI /URI (https://linkedin.com/in/janedoe) >> >>",
	})
}

func TestExtract_TextAndLinks(t *testing.T) {
	doc, err := NewExtractor().Extract(resumePDF("[6 0 R 7 0 R 8 0 R]"))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Pages)
	assert.Contains(t, doc.Text, "Jane Doe")
	assert.Equal(t, []string{"https://github.com/janedoe", "https://linkedin.com/in/janedoe"}, doc.Links)
	assert.Contains(t, doc.Text, LinkMarker+" https://github.com/janedoe")
	assert.Contains(t, doc.Text, LinkMarker+" https://linkedin.com/in/janedoe")

	// Links follow the page text they were found on.
	assert.Less(t, strings.Index(doc.Text, "Jane Doe"), strings.Index(doc.Text, LinkMarker))
}

func TestExtract_MalformedAnnotationSkipped(t *testing.T) {
	// The GoTo action and the inline non-dictionary entry carry no URI; extraction continues past them.
	doc, err := NewExtractor().Extract(resumePDF("[7 0 R 42 6 0 R]"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/janedoe"}, doc.Links)
}

func TestExtract_NoAnnotations(t *testing.T) {
	doc, err := NewExtractor().Extract(resumePDF("[]"))
	require.NoError(t, err)
	assert.Empty(t, doc.Links)
	assert.NotNil(t, doc.Links)
	assert.NotContains(t, doc.Text, LinkMarker)
}

func TestExtract_CorruptDocument(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("this is just some text, not a document")},
		{"truncated", resumePDF("[]")[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewExtractor().Extract(tt.data)
			assert.Nil(t, doc)
			require.Error(t, err)
			var extractionErr *ExtractionError
			assert.ErrorAs(t, err, &extractionErr)
		})
	}
}

func TestExtract_SharedFixture(t *testing.T) {
	doc, err := NewExtractor().Extract(extractiontest.ResumePDF("John Smith (Go)", "https://example.com/john"))
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "John Smith (Go)")
	assert.Equal(t, []string{"https://example.com/john"}, doc.Links)
}

func TestExtractReader(t *testing.T) {
	doc, err := NewExtractor().ExtractReader(bytes.NewReader(resumePDF("[6 0 R]")))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/janedoe"}, doc.Links)
}

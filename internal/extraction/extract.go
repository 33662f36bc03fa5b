package extraction

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// LinkMarker prefixes every link URI appended to the text stream.
// Link targets are not visible text in the rendered PDF, so they are surfaced inline for the model.
const LinkMarker = "[LINK FOUND]:"

// MaxDocumentSize caps how much of an upload is read into memory.
const MaxDocumentSize = 20 << 20

// Document is the extracted content of a source document.
type Document struct {
	Text  string
	Links []string
	Pages int
}

// Extractor reads text and link annotations from PDF documents.
type Extractor struct {
	logger zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-page and per-annotation diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractReader reads the whole document into memory and extracts it.
func (e *Extractor) ExtractReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to read document", Cause: err}
	}
	if len(data) > MaxDocumentSize {
		return nil, &ExtractionError{Message: fmt.Sprintf("document exceeds %d bytes", MaxDocumentSize)}
	}
	return e.Extract(data)
}

// Extract walks every page, concatenating page text with a newline separator and
// appending each external URI link annotation as an inline marker line.
func (e *Extractor) Extract(data []byte) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Message: "document is empty"}
	}

	// The PDF reader panics on some malformed cross-reference data.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &ExtractionError{Message: "document could not be parsed", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Message: "document could not be opened", Cause: err}
	}

	var text strings.Builder
	links := []string{}
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text.WriteString(e.pageText(page, i))
		text.WriteString("\n")

		for _, uri := range e.pageLinks(page, i) {
			links = append(links, uri)
			text.WriteString("\n")
			text.WriteString(LinkMarker)
			text.WriteString(" ")
			text.WriteString(uri)
			text.WriteString("\n")
		}
	}

	e.logger.Debug().
		Int("pages", numPages).
		Int("chars", text.Len()).
		Int("links", len(links)).
		Msg("extracted document")

	return &Document{Text: text.String(), Links: links, Pages: numPages}, nil
}

// pageText returns the plain text of a page, or "" when its content stream cannot be decoded.
func (e *Extractor) pageText(page pdf.Page, num int) string {
	content, err := page.GetPlainText(nil)
	if err != nil {
		e.logger.Warn().Err(err).Int("page", num).Msg("skipping unreadable page text")
		return ""
	}
	return content
}

// pageLinks returns the URI targets of the page's link annotations in annotation order.
func (e *Extractor) pageLinks(page pdf.Page, num int) []string {
	annots := page.V.Key("Annots")
	if annots.Kind() != pdf.Array {
		return nil
	}

	var uris []string
	for i := 0; i < annots.Len(); i++ {
		uri, ok := e.annotationURI(annots, i)
		if !ok {
			e.logger.Debug().Int("page", num).Int("annotation", i).Msg("skipping annotation without URI")
			continue
		}
		uris = append(uris, uri)
	}
	return uris
}

// annotationURI resolves one annotation's /A /URI entry. Any failure skips only this annotation.
func (e *Extractor) annotationURI(annots pdf.Value, index int) (uri string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			uri, ok = "", false
		}
	}()

	action := annots.Index(index).Key("A")
	if action.Kind() != pdf.Dict {
		return "", false
	}
	target := action.Key("URI")
	if target.Kind() != pdf.String {
		return "", false
	}
	uri = strings.TrimSpace(target.Text())
	return uri, uri != ""
}

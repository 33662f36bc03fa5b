package compiler

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount returns the number of pages in a compiled PDF.
func PageCount(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("failed to count PDF pages: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to count PDF pages: %w", err)
	}
	return reader.NumPage(), nil
}

// Package ingest stores uploaded documents on local disk and derives the
// page count from the file itself, so pricing never trusts a client-supplied
// number when the document is available.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	pdf "github.com/ledongthuc/pdf"

	"github.com/printhub/server/internal/core"
)

// maxUploadBytes bounds a single document upload.
const maxUploadBytes = 50 << 20

// Local implements core.DocumentIngestion against a directory.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Process stores the document under a generated name and returns its path
// and page count. Only PDFs can be counted; other types are rejected because
// an uncountable document cannot be priced.
func (l *Local) Process(ctx context.Context, fileName string, r io.Reader) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".pdf" {
		return "", 0, &core.ValidationError{Field: "file", Reason: "only PDF uploads are supported"}
	}

	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return "", 0, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return "", 0, &core.ValidationError{Field: "file", Reason: "file too large"}
	}

	pages, err := countPages(data)
	if err != nil {
		return "", 0, &core.ValidationError{Field: "file", Reason: "not a readable PDF"}
	}

	ref := filepath.Join(l.dir, uuid.NewString()+ext)
	if err := os.WriteFile(ref, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("store upload: %w", err)
	}
	return ref, pages, nil
}

func countPages(data []byte) (int, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("new pdf reader: %w", err)
	}

	n := doc.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return n, nil
}

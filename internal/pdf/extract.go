// Package pdf wraps the PDF libraries behind the two operations the
// pipeline needs: extracting page count plus first-page text at ingestion,
// and rendering a single page to JPEG on demand.
package pdf

import (
	"log/slog"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docvault/docvault/internal/docerr"
)

// Extraction is the result of reading a staged PDF.
type Extraction struct {
	Pages         int
	FirstPageText string
}

// Extractor derives page count and first-page text from a PDF on disk.
// Validation and page counting use pdfcpu in relaxed mode; text extraction
// is best-effort, since scanned or image-only PDFs legitimately carry no
// text layer.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(path string) (Extraction, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return Extraction{}, docerr.Wrap(docerr.KindMalformedDocument, "pdf.Extract", "file is not a parsable PDF", err)
	}
	pages, err := api.PageCountFile(path)
	if err != nil {
		return Extraction{}, docerr.Wrap(docerr.KindMalformedDocument, "pdf.Extract", "failed to count pages", err)
	}
	if pages < 1 {
		return Extraction{Pages: pages}, nil
	}
	return Extraction{Pages: pages, FirstPageText: firstPageText(path)}, nil
}

func firstPageText(path string) string {
	f, r, err := pdf.Open(path)
	if err != nil {
		slog.Debug("Text extraction failed, treating document as textless.", "path", path, "error", err)
		return ""
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return ""
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		slog.Debug("Text extraction failed on first page.", "path", path, "error", err)
		return ""
	}
	return text
}

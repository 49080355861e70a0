package pdf

import (
	"bytes"
	"context"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/sync/semaphore"

	"github.com/docvault/docvault/internal/docerr"
)

const jpegQuality = 85

// Rasterizer renders single PDF pages to JPEG. Rendering is CPU-bound, so
// a weighted semaphore caps how many renders run at once; waiting renders
// respect request cancellation.
type Rasterizer struct {
	sem *semaphore.Weighted
}

func NewRasterizer(maxParallel int) *Rasterizer {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Rasterizer{sem: semaphore.NewWeighted(int64(maxParallel))}
}

// Render rasterizes the 1-based page of the given PDF bytes. The page
// bound is checked against the rasterizer's own page count, not the stored
// metadata, since the two can disagree on a damaged blob.
func (r *Rasterizer) Render(ctx context.Context, data []byte, page int) ([]byte, error) {
	if page < 1 {
		return nil, docerr.Newf(docerr.KindPageOutOfRange, "pdf.Render", "invalid page number %d", page)
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, docerr.Wrap(docerr.KindMalformedDocument, "pdf.Render", "file is not a renderable PDF", err)
	}
	defer doc.Close()

	if page > doc.NumPage() {
		return nil, docerr.Newf(docerr.KindPageOutOfRange, "pdf.Render", "invalid page number %d: document has %d pages", page, doc.NumPage())
	}
	img, err := doc.Image(page - 1)
	if err != nil {
		return nil, docerr.Wrap(docerr.KindMalformedDocument, "pdf.Render", "failed to rasterize page", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, docerr.Wrap(docerr.KindUnknown, "pdf.Render", "failed to encode JPEG", err)
	}
	return buf.Bytes(), nil
}

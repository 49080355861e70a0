package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/docvault/docvault/internal/docerr"
	"github.com/docvault/docvault/internal/pdf"
	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/store"
	"github.com/docvault/docvault/internal/text"
)

var samplePDF = []byte("%PDF-1.4 stand-in bytes for a two page document")

const sampleText = "The quick brown fox jumps. It runs fast."

type stubExtractor struct{}

func (stubExtractor) Extract(string) (pdf.Extraction, error) {
	return pdf.Extraction{Pages: 2, FirstPageText: sampleText}, nil
}

type stubRenderer struct{ pages int }

func (r stubRenderer) Render(_ context.Context, _ []byte, page int) ([]byte, error) {
	if page < 1 || page > r.pages {
		return nil, docerr.Newf(docerr.KindPageOutOfRange, "pdf.Render", "invalid page number %d", page)
	}
	return []byte(fmt.Sprintf("jpeg-page-%d", page)), nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	seg, err := text.NewSegmenter()
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}
	meta := store.NewMemoryStore()
	blobs := store.NewMemoryBlobStore()
	ingester := services.NewIngester(meta, blobs, stubExtractor{}, seg)
	library := services.NewLibrary(meta, blobs, stubRenderer{pages: 2}, 4)

	ts := httptest.NewServer(New(ingester, library, 8<<20).Router())
	t.Cleanup(ts.Close)
	return ts
}

func uploadPDF(t *testing.T, ts *httptest.Server, filename, contentType string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("part.Write: %v", err)
	}
	mw.Close()

	resp, err := http.Post(ts.URL+"/documents", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /documents: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorKind(t *testing.T, resp *http.Response) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, resp, &envelope)
	return envelope.Error.Kind
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestUploadAndRetrieve(t *testing.T) {
	ts := newTestServer(t)

	resp := uploadPDF(t, ts, "sample.pdf", "application/pdf", samplePDF)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp, &created)
	if created.ID == "" {
		t.Fatal("upload returned empty id")
	}
	id := created.ID

	// Metadata.
	resp, err := http.Get(ts.URL + "/documents/" + id)
	if err != nil {
		t.Fatalf("GET metadata: %v", err)
	}
	var doc struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Pages       int    `json:"pages"`
		Size        int64  `json:"size"`
		SentencesID string `json:"sentences_id"`
	}
	decode(t, resp, &doc)
	if doc.Name != "sample.pdf" || doc.Pages != 2 || doc.Size != int64(len(samplePDF)) {
		t.Errorf("metadata = %+v", doc)
	}
	if doc.SentencesID == "" {
		t.Error("single lookup should include the sentence reference")
	}

	// Listing projects the sentence reference away.
	resp, err = http.Get(ts.URL + "/documents")
	if err != nil {
		t.Fatalf("GET /documents: %v", err)
	}
	var listed []map[string]any
	decode(t, resp, &listed)
	if len(listed) != 1 {
		t.Fatalf("list returned %d documents, want 1", len(listed))
	}
	if _, ok := listed[0]["sentences_id"]; ok {
		t.Error("listing leaked sentences_id")
	}

	// Sentences.
	resp, err = http.Get(ts.URL + "/documents/" + id + "/sentences")
	if err != nil {
		t.Fatalf("GET sentences: %v", err)
	}
	var sens struct {
		Sentences []string `json:"sentences"`
	}
	decode(t, resp, &sens)
	want := []string{"The quick brown fox jumps.", "It runs fast."}
	if len(sens.Sentences) != 2 || sens.Sentences[0] != want[0] || sens.Sentences[1] != want[1] {
		t.Errorf("sentences = %q, want %q", sens.Sentences, want)
	}

	// Blob download.
	resp, err = http.Get(ts.URL + "/documents/" + id + "/blob")
	if err != nil {
		t.Fatalf("GET blob: %v", err)
	}
	blob, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Equal(blob, samplePDF) {
		t.Error("blob bytes do not match upload")
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `attachment`) || !strings.Contains(cd, "sample.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	// Page render.
	resp, err = http.Get(ts.URL + "/documents/" + id + "/pages/1")
	if err != nil {
		t.Fatalf("GET page: %v", err)
	}
	img, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(img) != "jpeg-page-1" {
		t.Errorf("page render: status %d body %q", resp.StatusCode, img)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("page Content-Type = %q", ct)
	}

	// Page out of range, stored count and renderer agree on 2 pages.
	resp, err = http.Get(ts.URL + "/documents/" + id + "/pages/3")
	if err != nil {
		t.Fatalf("GET page 3: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("page 3 status = %d, want 404", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != string(docerr.KindPageOutOfRange) {
		t.Errorf("page 3 kind = %q, want page_out_of_range", kind)
	}

	// Search.
	resp, err = http.Get(ts.URL + "/documents/" + id + "/search?q=fox")
	if err != nil {
		t.Fatalf("GET search: %v", err)
	}
	var result struct {
		Occurrence int      `json:"occurrence"`
		Sentences  []string `json:"sentences"`
	}
	decode(t, resp, &result)
	if result.Occurrence != 1 || len(result.Sentences) != 1 || result.Sentences[0] != want[0] {
		t.Errorf("search = %+v", result)
	}

	// Corpus search.
	resp, err = http.Get(ts.URL + "/search?q=fox")
	if err != nil {
		t.Fatalf("GET /search: %v", err)
	}
	var corpus struct {
		IDs     []string                   `json:"ids"`
		Results map[string]json.RawMessage `json:"results"`
	}
	decode(t, resp, &corpus)
	if len(corpus.IDs) != 1 || corpus.IDs[0] != id {
		t.Errorf("corpus ids = %v, want [%s]", corpus.IDs, id)
	}

	// Top words.
	resp, err = http.Get(ts.URL + "/documents/" + id + "/top-words")
	if err != nil {
		t.Fatalf("GET top-words: %v", err)
	}
	var tw struct {
		TopWords []struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		} `json:"top-words"`
	}
	decode(t, resp, &tw)
	if len(tw.TopWords) == 0 || len(tw.TopWords) > 5 {
		t.Errorf("top-words = %+v", tw.TopWords)
	}

	// Delete, then everything 404s.
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/documents/"+id, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	for _, path := range []string{"", "/sentences", "/blob"} {
		resp, err := http.Get(ts.URL + "/documents/" + id + path)
		if err != nil {
			t.Fatalf("GET after delete: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s after delete: status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestUploadRejectsWrongContentType(t *testing.T) {
	ts := newTestServer(t)

	resp := uploadPDF(t, ts, "notes.txt", "text/plain", []byte("plain text"))
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != string(docerr.KindUnsupportedMediaType) {
		t.Errorf("kind = %q, want unsupported_media_type", kind)
	}

	// No record was created.
	listResp, err := http.Get(ts.URL + "/documents")
	if err != nil {
		t.Fatalf("GET /documents: %v", err)
	}
	var listed []map[string]any
	decode(t, listResp, &listed)
	if len(listed) != 0 {
		t.Errorf("rejected upload left %d documents", len(listed))
	}
}

func TestUploadRejectsNonMultipartBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/documents", "application/json", strings.NewReader(`{"not": "multipart"}`))
	if err != nil {
		t.Fatalf("POST /documents: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != string(docerr.KindMalformedDocument) {
		t.Errorf("kind = %q, want malformed_document envelope", kind)
	}
}

func TestUploadRequiresFileField(t *testing.T) {
	ts := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("note", "no file part"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	mw.Close()

	resp, err := http.Post(ts.URL+"/documents", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /documents: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != string(docerr.KindMalformedDocument) {
		t.Errorf("kind = %q, want malformed_document envelope", kind)
	}
}

func TestCorpusSearchOmitsNonMatching(t *testing.T) {
	ts := newTestServer(t)

	// Both uploads share the stub extractor's text; search for a word that
	// appears in it, then for one that doesn't.
	resp := uploadPDF(t, ts, "a.pdf", "application/pdf", samplePDF)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp, &created)

	searchResp, err := http.Get(ts.URL + "/search?q=zeppelin")
	if err != nil {
		t.Fatalf("GET /search: %v", err)
	}
	var corpus struct {
		IDs     []string                   `json:"ids"`
		Results map[string]json.RawMessage `json:"results"`
	}
	decode(t, searchResp, &corpus)
	if len(corpus.IDs) != 0 || len(corpus.Results) != 0 {
		t.Errorf("non-matching search returned %+v", corpus)
	}
}

func TestGetUnknownDocument(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/documents/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != string(docerr.KindNotFound) {
		t.Errorf("kind = %q, want not_found", kind)
	}
}

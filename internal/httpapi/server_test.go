package httpapi

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/uberstorm/hebrewfontmaker/internal/config"
	"github.com/uberstorm/hebrewfontmaker/internal/session"
)

func testServer(t *testing.T) (*Server, config.Config) {
	t.Helper()
	cfg := config.Config{
		Addr:           "127.0.0.1:0",
		UploadDir:      t.TempDir(),
		OutputDir:      t.TempDir(),
		MaxUploadBytes: 50 * 1024 * 1024,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(session.New(), cfg, log), cfg
}

func twoLetterPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	fill := func(x0, y0, x1, y1 int) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	fill(20, 20, 80, 80)
	fill(120, 20, 180, 80)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t)
	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestUploadAssignGenerateFlow(t *testing.T) {
	s, cfg := testServer(t)

	body, ct := multipartUpload(t, "file", "sheet.png", twoLetterPNG(t))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("upload status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var uploadResp DetectionListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &uploadResp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploadResp.Count == 0 {
		t.Fatal("upload found no detections")
	}

	assignBody, _ := json.Marshal(map[string]any{
		"assignments": []map[string]any{
			{"detection_id": 0, "hebrew_char": "א"},
		},
	})
	req = httptest.NewRequest("POST", "/assign-letters", bytes.NewReader(assignBody))
	rr = httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("assign status = %d, body = %s", rr.Code, rr.Body.String())
	}

	genBody, _ := json.Marshal(map[string]any{
		"font_name": "TestFont",
		"metadata":  map[string]string{"family_name": "TestFont"},
	})
	req = httptest.NewRequest("POST", "/generate-font", bytes.NewReader(genBody))
	rr = httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("generate status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var genResp struct {
		Filename   string `json:"filename"`
		GlyphCount int    `json:"glyph_count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &genResp); err != nil {
		t.Fatalf("decode generate response: %v", err)
	}
	if genResp.GlyphCount == 0 {
		t.Error("generate reported zero glyphs")
	}
	if _, err := os.Stat(cfg.OutputDir + "/" + genResp.Filename); err != nil {
		t.Errorf("generated font file not found: %v", err)
	}
}

func TestGenerateWithoutAssignmentsFails(t *testing.T) {
	s, _ := testServer(t)
	body, ct := multipartUpload(t, "file", "sheet.png", twoLetterPNG(t))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("upload status = %d", rr.Code)
	}

	genBody, _ := json.Marshal(map[string]any{"font_name": "TestFont"})
	req = httptest.NewRequest("POST", "/generate-font", bytes.NewReader(genBody))
	rr = httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != 400 {
		t.Fatalf("generate without assignments status = %d, want 400", rr.Code)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	s, _ := testServer(t)
	body, ct := multipartUpload(t, "file", "sheet.txt", []byte("not an image"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != 400 {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

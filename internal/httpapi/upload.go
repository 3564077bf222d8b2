package httpapi

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/uberstorm/hebrewfontmaker/internal/apierr"
	"github.com/uberstorm/hebrewfontmaker/internal/detect"
	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

var acceptedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
}

// DetectionJSON is one detection's wire shape for API responses.
type DetectionJSON struct {
	ID        int      `json:"id"`
	BBox      BBoxJSON `json:"bbox"`
	Area      int      `json:"area"`
	FillRatio float64  `json:"fill_ratio"`
	Image     string   `json:"image"`
}

// BBoxJSON is a detection's bounding box on the wire.
type BBoxJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// ImageInfoJSON reports the loaded image's pixel dimensions.
type ImageInfoJSON struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DetectionListResponse is the response shape shared by upload,
// redetect and every manual-edit endpoint.
type DetectionListResponse struct {
	Count      int             `json:"count"`
	Detections []DetectionJSON `json:"detections"`
	ImageInfo  ImageInfoJSON   `json:"image_info"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, apierr.Wrap(apierr.BadInput, "could not parse upload", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apierr.Wrap(apierr.BadInput, "missing upload file", err))
		return
	}
	defer file.Close()

	level := parseSeparationLevel(r.FormValue("separation_level"))

	data, img, ext, err := s.readAndDecode(file, header.Filename, header.Size)
	if err != nil {
		writeError(w, err)
		return
	}

	dets, err := s.sess.Upload(img, level)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.InternalFailure, "detection failed", err))
		return
	}
	s.sess.SetOriginalBytes(data, ext)

	if err := s.saveUpload(data, ext); err != nil {
		s.log.Error("saving upload", "error", err)
	}

	resp, err := s.buildDetectionList(dets)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.InternalFailure, "rendering detection previews failed", err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRedetect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SeparationLevel int `json:"separation_level"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dets, err := s.sess.Redetect(req.SeparationLevel)
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}
	resp, err := s.buildDetectionList(dets)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.InternalFailure, "rendering detection previews failed", err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readAndDecode(file multipart.File, filename string, size int64) ([]byte, image.Image, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !acceptedExtensions[ext] {
		return nil, nil, "", apierr.New(apierr.BadInput, "unsupported file extension "+ext)
	}
	if size > s.cfg.MaxUploadBytes {
		return nil, nil, "", apierr.New(apierr.BadInput, "upload exceeds maximum size")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, "", apierr.Wrap(apierr.BadInput, "reading upload body failed", err)
	}
	if len(data) == 0 {
		return nil, nil, "", apierr.New(apierr.BadInput, "empty upload body")
	}

	var img image.Image
	if ext == ".bmp" {
		img, err = imaging.DecodeBMP(bytes.NewReader(data))
	} else {
		img, _, err = imaging.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, nil, "", apierr.Wrap(apierr.DecodeFailure, "could not decode image", err)
	}
	return data, img, ext, nil
}

func (s *Server) saveUpload(data []byte, ext string) error {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("upload-%d%s", time.Now().UnixNano(), ext)
	return os.WriteFile(filepath.Join(s.cfg.UploadDir, name), data, 0o644)
}

func (s *Server) buildDetectionList(dets []detect.Detection) (DetectionListResponse, error) {
	w, h, err := s.sess.ImageSize()
	if err != nil {
		return DetectionListResponse{}, err
	}
	out := make([]DetectionJSON, len(dets))
	for i, d := range dets {
		preview, err := s.sess.Preview(i)
		if err != nil {
			return DetectionListResponse{}, err
		}
		out[i] = DetectionJSON{
			ID:        i,
			BBox:      BBoxJSON{X: d.BBox.X, Y: d.BBox.Y, W: d.BBox.W, H: d.BBox.H},
			Area:      d.Area,
			FillRatio: d.FillRatio(),
			Image:     base64.StdEncoding.EncodeToString(preview),
		}
	}
	return DetectionListResponse{
		Count:      len(dets),
		Detections: out,
		ImageInfo:  ImageInfoJSON{Width: w, Height: h},
	}, nil
}

func parseSeparationLevel(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

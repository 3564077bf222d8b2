package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/uberstorm/hebrewfontmaker/internal/apierr"
	"github.com/uberstorm/hebrewfontmaker/internal/assemble"
	"github.com/uberstorm/hebrewfontmaker/internal/detect"
	"github.com/uberstorm/hebrewfontmaker/internal/glyph"
	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
	"github.com/uberstorm/hebrewfontmaker/internal/session"
)

// classifySessionErr turns a session/detect error into an *apierr.Error
// with the error kind a bare error would otherwise lose.
func classifySessionErr(err error) error {
	switch {
	case errors.Is(err, session.ErrNoImage), errors.Is(err, session.ErrNoAssignments):
		return apierr.Wrap(apierr.BadInput, "invalid request", err)
	case errors.Is(err, session.ErrNoDetection), errors.Is(err, session.ErrVersionMismatch),
		errors.Is(err, detect.ErrNotEnoughParts):
		return apierr.Wrap(apierr.BadState, "invalid session state", err)
	case errors.Is(err, detect.ErrTooSmall):
		return apierr.Wrap(apierr.BadInput, "invalid detection edit", err)
	default:
		return apierr.Wrap(apierr.InternalFailure, "operation failed", err)
	}
}

func (s *Server) handleAddDetection(w http.ResponseWriter, r *http.Request) {
	var req struct{ X, Y, W, H int }
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dets, err := s.sess.AddDetection(req.X, req.Y, req.W, req.H)
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}
	s.respondDetections(w, dets)
}

func (s *Server) handleRemoveDetection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dets, err := s.sess.RemoveDetection(req.ID)
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}
	s.respondDetections(w, dets)
}

func (s *Server) handleMergeDetections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.IDs) < 2 {
		writeError(w, apierr.New(apierr.BadInput, "merge requires at least two detection ids"))
		return
	}
	dets, err := s.sess.MergeDetections(req.IDs)
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}
	s.respondDetections(w, dets)
}

func (s *Server) handleSplitDetection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dets, err := s.sess.SplitDetection(req.ID)
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}
	s.respondDetections(w, dets)
}

func (s *Server) respondDetections(w http.ResponseWriter, dets []detect.Detection) {
	resp, err := s.buildDetectionList(dets)
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type letterAssignment struct {
	DetectionID int    `json:"detection_id"`
	HebrewChar  string `json:"hebrew_char"`
}

func (s *Server) handleAssignLetters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Assignments []letterAssignment `json:"assignments"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	assignments := make(map[rune]int, len(req.Assignments))
	for _, a := range req.Assignments {
		ch, size := utf8DecodeRuneInString(a.HebrewChar)
		if size == 0 {
			writeError(w, apierr.New(apierr.BadInput, "empty hebrew_char in assignment"))
			return
		}
		assignments[ch] = a.DetectionID
	}
	count, err := s.sess.AssignLetters(assignments)
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"assigned_count": count})
}

func utf8DecodeRuneInString(str string) (rune, int) {
	for _, r := range str {
		return r, len(string(r))
	}
	return 0, 0
}

func (s *Server) handleGenerateFont(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FontName    string                      `json:"font_name"`
		RefHeight   float64                      `json:"ref_height"`
		Adjustments map[string]glyph.Adjustment `json:"adjustments"`
		Metadata    assemble.Metadata           `json:"metadata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.FontName) == "" {
		writeError(w, apierr.New(apierr.BadInput, "font_name is required"))
		return
	}
	fontName := norm.NFC.String(req.FontName)

	for c, adj := range req.Adjustments {
		ch, size := utf8DecodeRuneInString(c)
		if size == 0 {
			continue
		}
		s.sess.SetAdjustment(ch, adj)
	}

	data, count, err := s.sess.Generate(session.GenerateParams{
		FontName:        fontName,
		ReferenceHeight: req.RefHeight,
		UseFallback:     true,
		Metadata:        req.Metadata,
	})
	if err != nil {
		if errors.Is(err, session.ErrNoAssignments) || errors.Is(err, session.ErrNoImage) {
			writeError(w, classifySessionErr(err))
			return
		}
		writeError(w, apierr.Wrap(apierr.AssemblyFailure, "font assembly failed", err))
		return
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		writeError(w, apierr.Wrap(apierr.AssemblyFailure, "could not create output directory", err))
		return
	}
	filename := sanitizeFilename(fontName) + ".ttf"
	if err := os.WriteFile(filepath.Join(s.cfg.OutputDir, filename), data, 0o644); err != nil {
		writeError(w, apierr.Wrap(apierr.AssemblyFailure, "could not write font file", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filename":    filename,
		"glyph_count": count,
	})
}

func (s *Server) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	s.sess.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleExportProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FontName    string                      `json:"font_name"`
		Assignments []letterAssignment          `json:"assignments"`
		Adjustments map[string]glyph.Adjustment `json:"adjustments"`
		Metadata    map[string]string           `json:"metadata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if len(req.Assignments) > 0 {
		assignments := make(map[rune]int, len(req.Assignments))
		for _, a := range req.Assignments {
			ch, size := utf8DecodeRuneInString(a.HebrewChar)
			if size == 0 {
				continue
			}
			assignments[ch] = a.DetectionID
		}
		if _, err := s.sess.AssignLetters(assignments); err != nil {
			writeError(w, classifySessionErr(err))
			return
		}
	}
	for c, adj := range req.Adjustments {
		ch, size := utf8DecodeRuneInString(c)
		if size == 0 {
			continue
		}
		s.sess.SetAdjustment(ch, adj)
	}

	original := s.sess.OriginalBytes()
	if original == nil {
		writeError(w, apierr.New(apierr.BadInput, "no image loaded"))
		return
	}
	binaryPNG, err := s.sess.BinaryPNG()
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}

	snap := s.sess.Snapshot(
		req.FontName,
		base64.StdEncoding.EncodeToString(original),
		base64.StdEncoding.EncodeToString(binaryPNG),
		req.Metadata,
	)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sanitizeFilename(req.FontName)+".hfm"))
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.log.Error("encoding project export", "error", err)
	}
}

func (s *Server) handleImportProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, apierr.Wrap(apierr.BadInput, "could not parse upload", err))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, apierr.Wrap(apierr.BadInput, "missing project file", err))
		return
	}
	defer file.Close()

	var snap session.Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		writeError(w, apierr.Wrap(apierr.DecodeFailure, "could not parse project file", err))
		return
	}

	imageBytes, err := base64.StdEncoding.DecodeString(snap.ImageBase64)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.DecodeFailure, "invalid image_base64 in project file", err))
		return
	}
	binaryBytes, err := base64.StdEncoding.DecodeString(snap.BinaryBase64)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.DecodeFailure, "invalid binary_base64 in project file", err))
		return
	}

	img, _, err := imaging.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		writeError(w, apierr.Wrap(apierr.DecodeFailure, "could not decode embedded image", err))
		return
	}
	binImg, _, err := imaging.Decode(bytes.NewReader(binaryBytes))
	if err != nil {
		writeError(w, apierr.Wrap(apierr.DecodeFailure, "could not decode embedded binary mask", err))
		return
	}
	binary := imaging.BinaryFromImage(binImg)

	if err := s.sess.Restore(snap, img, binary, imageBytes, ".png"); err != nil {
		writeError(w, classifySessionErr(err))
		return
	}

	resp, err := s.buildDetectionList(s.sess.Detections())
	if err != nil {
		writeError(w, classifySessionErr(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "font"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	base := b.String()
	if base == "" {
		base = "font"
	}
	return fmt.Sprintf("%s-%d", base, time.Now().UnixNano())
}

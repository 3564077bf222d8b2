package session

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"github.com/uberstorm/hebrewfontmaker/internal/detect"
	"github.com/uberstorm/hebrewfontmaker/internal/glyph"
	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

// ProjectVersion is the snapshot format version written by Snapshot and
// accepted by Restore.
const ProjectVersion = 2

// ErrVersionMismatch is returned by Restore when the snapshot's version
// field is not ProjectVersion.
var ErrVersionMismatch = errors.New("session: unsupported project file version")

// DetectionSnapshot is one detection's persisted shape in a project file.
type DetectionSnapshot struct {
	BBox          detect.BBox     `json:"bbox"`
	Area          int             `json:"area"`
	FillRatio     float64         `json:"fill_ratio"`
	ContourPoints []imaging.Point `json:"contour_points"`
}

// Snapshot is the full persisted shape of a project file.
type Snapshot struct {
	Version      int                         `json:"version"`
	FontName     string                      `json:"font_name"`
	ImageBase64  string                      `json:"image_base64"`
	BinaryBase64 string                      `json:"binary_base64"`
	Detections   []DetectionSnapshot         `json:"detections"`
	Assignments  map[string]int              `json:"assignments"`
	Adjustments  map[string]glyph.Adjustment `json:"adjustments"`
	Metadata     map[string]string           `json:"metadata"`
}

// SetOriginalBytes records the raw uploaded bytes and file extension, kept
// only so a later export can re-embed the exact original image rather than
// a re-encoded copy.
func (s *Session) SetOriginalBytes(data []byte, ext string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBytes = data
	s.rawExt = ext
}

// OriginalBytes returns the raw uploaded image bytes, if any were recorded.
func (s *Session) OriginalBytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawBytes
}

// BinaryPNG encodes the full (uncropped) binary mask as a PNG.
func (s *Session) BinaryPNG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.binary == nil {
		return nil, ErrNoImage
	}
	img := image.NewGray(image.Rect(0, 0, s.binary.Width, s.binary.Height))
	copy(img.Pix, s.binary.Pix)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Snapshot exports the current detections, assignments and adjustments in
// the shape DetectionSnapshot/Snapshot describe. Callers supply the
// already-base64-encoded image/binary payloads and font metadata, since
// those cross the session/HTTP boundary as raw bytes, not session state.
func (s *Session) Snapshot(fontName, imageB64, binaryB64 string, metadata map[string]string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	dets := make([]DetectionSnapshot, len(s.detections))
	for i, d := range s.detections {
		dets[i] = DetectionSnapshot{
			BBox:          d.BBox,
			Area:          d.Area,
			FillRatio:     d.FillRatio(),
			ContourPoints: d.Outer,
		}
	}

	assignments := make(map[string]int, len(s.assignments))
	for c, idx := range s.assignments {
		assignments[string(c)] = idx
	}
	adjustments := make(map[string]glyph.Adjustment, len(s.adjustments))
	for c, adj := range s.adjustments {
		adjustments[string(c)] = adj
	}

	return Snapshot{
		Version:      ProjectVersion,
		FontName:     fontName,
		ImageBase64:  imageB64,
		BinaryBase64: binaryB64,
		Detections:   dets,
		Assignments:  assignments,
		Adjustments:  adjustments,
		Metadata:     metadata,
	}
}

// Restore re-establishes a Session from a decoded project snapshot,
// skipping the Detector entirely — the stored detections and their contour
// points are trusted as-is — then layers the restored assignments and
// adjustments on top.
func (s *Session) Restore(snap Snapshot, original image.Image, binary *imaging.Binary, rawBytes []byte, rawExt string) error {
	if snap.Version != ProjectVersion {
		return ErrVersionMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dets := make([]detect.Detection, len(snap.Detections))
	for i, d := range snap.Detections {
		dets[i] = detect.Detection{
			BBox:  d.BBox,
			Area:  d.Area,
			Outer: d.ContourPoints,
		}
	}

	assignments := make(map[rune]int, len(snap.Assignments))
	for c, idx := range snap.Assignments {
		r := firstRune(c)
		assignments[r] = idx
	}
	adjustments := make(map[rune]glyph.Adjustment, len(snap.Adjustments))
	for c, adj := range snap.Adjustments {
		adjustments[firstRune(c)] = adj
	}

	s.original = original
	s.originalGray = imaging.ToGray(original)
	s.binary = binary
	s.detections = dets
	s.assignments = assignments
	s.adjustments = adjustments
	s.rawBytes = rawBytes
	s.rawExt = rawExt

	return nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

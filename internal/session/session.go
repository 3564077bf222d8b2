// Package session holds the single current editing context for the font
// pipeline — the uploaded image, its detections, and the user's letter
// assignments and per-character adjustments — and serializes every mutating
// operation behind one mutex.
package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/uberstorm/hebrewfontmaker/internal/assemble"
	"github.com/uberstorm/hebrewfontmaker/internal/detect"
	"github.com/uberstorm/hebrewfontmaker/internal/extract"
	"github.com/uberstorm/hebrewfontmaker/internal/glyph"
	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

// PreviewPadding is the border added around a detection's bbox when
// rendering the crop thumbnail sent back to the UI.
const PreviewPadding = 6

// ErrNoImage is returned by any operation that requires an uploaded image
// when none has been loaded yet.
var ErrNoImage = errors.New("session: no image loaded")

// ErrNoDetection is returned when an operation references a detection
// index outside the current list.
var ErrNoDetection = errors.New("session: no detection at that index")

// ErrNoAssignments is returned by Generate when the assignment map is
// empty — there is nothing to build a font from.
var ErrNoAssignments = errors.New("session: no letters assigned")

// Session is the process-wide mutable editing context. The zero value is a
// cleared session, ready to use.
type Session struct {
	mu sync.Mutex

	original        image.Image
	originalGray    *imaging.Gray
	binary          *imaging.Binary
	separationLevel int

	detections  []detect.Detection
	assignments map[rune]int
	adjustments map[rune]glyph.Adjustment

	rawBytes []byte
	rawExt   string
}

// New returns an empty, cleared Session.
func New() *Session {
	return &Session{
		assignments: make(map[rune]int),
		adjustments: make(map[rune]glyph.Adjustment),
	}
}

// Upload replaces the current image, re-runs detection, and clears any
// previous assignments and adjustments.
func (s *Session) Upload(img image.Image, separationLevel int) ([]detect.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := detect.Detect(img, separationLevel)
	if err != nil {
		return nil, err
	}

	s.original = img
	s.originalGray = result.Original
	s.binary = result.Binary
	s.separationLevel = separationLevel
	s.detections = result.Detections
	s.assignments = make(map[rune]int)
	s.adjustments = make(map[rune]glyph.Adjustment)

	return s.snapshotDetections(), nil
}

// Redetect re-runs the Detector against the already-loaded image at a new
// separation level, replacing the detection list and clearing assignments
// and adjustments: the new list is independently ordered, so any
// rune -> old-index assignment would point at an unrelated detection.
func (s *Session) Redetect(separationLevel int) ([]detect.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return nil, ErrNoImage
	}

	result, err := detect.Detect(s.original, separationLevel)
	if err != nil {
		return nil, err
	}

	s.originalGray = result.Original
	s.binary = result.Binary
	s.separationLevel = separationLevel
	s.detections = result.Detections
	s.assignments = make(map[rune]int)
	s.adjustments = make(map[rune]glyph.Adjustment)

	return s.snapshotDetections(), nil
}

// AddDetection appends a manually drawn rectangle.
func (s *Session) AddDetection(x, y, w, h int) ([]detect.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return nil, ErrNoImage
	}
	updated, err := detect.Add(s.detections, x, y, w, h, s.originalGray.Width, s.originalGray.Height)
	if err != nil {
		return nil, err
	}
	s.detections = updated
	return s.snapshotDetections(), nil
}

// RemoveDetection deletes the detection at index.
func (s *Session) RemoveDetection(index int) ([]detect.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.detections) {
		return nil, ErrNoDetection
	}
	updated, err := detect.Remove(s.detections, index)
	if err != nil {
		return nil, err
	}
	s.detections = updated
	s.dropAssignment(index)
	return s.snapshotDetections(), nil
}

// MergeDetections unions the detections at the given indices.
func (s *Session) MergeDetections(indices []int) ([]detect.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, i := range indices {
		if i < 0 || i >= len(s.detections) {
			return nil, ErrNoDetection
		}
	}
	updated, err := detect.Merge(s.detections, indices)
	if err != nil {
		return nil, err
	}
	s.detections = updated
	s.assignments = make(map[rune]int) // index space changed; user must reassign
	return s.snapshotDetections(), nil
}

// SplitDetection re-runs component extraction on the detection at index.
func (s *Session) SplitDetection(index int) ([]detect.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.binary == nil {
		return nil, ErrNoImage
	}
	if index < 0 || index >= len(s.detections) {
		return nil, ErrNoDetection
	}
	updated, err := detect.Split(s.detections, index, s.binary)
	if err != nil {
		return nil, err
	}
	s.detections = updated
	s.assignments = make(map[rune]int) // index space changed; user must reassign
	return s.snapshotDetections(), nil
}

// AssignLetters replaces the assignment map atomically: every entry is
// validated against the current detection list before any is applied.
func (s *Session) AssignLetters(assignments map[rune]int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, idx := range assignments {
		if idx < 0 || idx >= len(s.detections) {
			return 0, ErrNoDetection
		}
	}
	next := make(map[rune]int, len(assignments))
	for c, idx := range assignments {
		next[c] = idx
	}
	s.assignments = next
	return len(next), nil
}

// SetAdjustment records a per-character tuning record, overwriting any
// existing one for that character.
func (s *Session) SetAdjustment(c rune, adj glyph.Adjustment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adjustments == nil {
		s.adjustments = make(map[rune]glyph.Adjustment)
	}
	s.adjustments[c] = adj
}

// Clear resets the session to its zero state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.original = nil
	s.originalGray = nil
	s.binary = nil
	s.separationLevel = 0
	s.detections = nil
	s.assignments = make(map[rune]int)
	s.adjustments = make(map[rune]glyph.Adjustment)
	s.rawBytes = nil
	s.rawExt = ""
}

// Detections returns a copy of the current detection list.
func (s *Session) Detections() []detect.Detection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotDetections()
}

// ImageSize returns the loaded image's dimensions.
func (s *Session) ImageSize() (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.originalGray == nil {
		return 0, 0, ErrNoImage
	}
	return s.originalGray.Width, s.originalGray.Height, nil
}

// Preview renders the PNG-encoded crop for the detection at index, padded
// by PreviewPadding pixels and clamped to the image bounds.
func (s *Session) Preview(index int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.originalGray == nil {
		return nil, ErrNoImage
	}
	if index < 0 || index >= len(s.detections) {
		return nil, ErrNoDetection
	}
	b := s.detections[index].BBox
	x0 := clampInt(b.X-PreviewPadding, 0, s.originalGray.Width)
	y0 := clampInt(b.Y-PreviewPadding, 0, s.originalGray.Height)
	x1 := clampInt(b.X+b.W+PreviewPadding, 0, s.originalGray.Width)
	y1 := clampInt(b.Y+b.H+PreviewPadding, 0, s.originalGray.Height)

	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			img.SetGray(i, j, color.Gray{Y: s.originalGray.At(x0+i, y0+j)})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateParams bundles the inputs Generate needs beyond what the Session
// already holds.
type GenerateParams struct {
	FontName        string
	ReferenceHeight float64 // 0 means "derive from assigned detections"
	UseFallback     bool
	Metadata        assemble.Metadata
}

// Generate reads the session's detections, assignments and adjustments and
// assembles a TTF byte stream. It does not mutate the session.
func (s *Session) Generate(p GenerateParams) ([]byte, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.assignments) == 0 {
		return nil, 0, ErrNoAssignments
	}
	if s.binary == nil {
		return nil, 0, ErrNoImage
	}

	refHeight := p.ReferenceHeight
	if refHeight <= 0 {
		refHeight = s.maxAssignedHeight()
	}

	outlines := make(map[rune]*glyph.Outline, len(s.assignments))
	for c, idx := range s.assignments {
		if idx < 0 || idx >= len(s.detections) {
			return nil, 0, ErrNoDetection
		}
		d := s.detections[idx]
		contours, err := extract.Extract(s.binary, s.originalGray, d)
		if err != nil {
			return nil, 0, err
		}
		adj := s.adjustments[c]
		if adj == (glyph.Adjustment{}) {
			adj = glyph.DefaultAdjustment
		}
		outline, err := glyph.Build(c, contours, d.BBox.W, d.BBox.H, refHeight, adj)
		if err != nil {
			return nil, 0, err
		}
		outlines[c] = outline
	}

	meta := p.Metadata
	meta.FamilyName = p.FontName
	data, err := assemble.Assemble(outlines, meta, p.UseFallback)
	if err != nil {
		return nil, 0, err
	}
	return data, len(outlines), nil
}

func (s *Session) maxAssignedHeight() float64 {
	var max float64
	for _, idx := range s.assignments {
		if idx < 0 || idx >= len(s.detections) {
			continue
		}
		h := float64(s.detections[idx].BBox.H)
		if h > max {
			max = h
		}
	}
	return max
}

func (s *Session) dropAssignment(removedIndex int) {
	next := make(map[rune]int, len(s.assignments))
	for c, idx := range s.assignments {
		switch {
		case idx == removedIndex:
			continue
		case idx > removedIndex:
			next[c] = idx - 1
		default:
			next[c] = idx
		}
	}
	s.assignments = next
}

func (s *Session) snapshotDetections() []detect.Detection {
	out := make([]detect.Detection, len(s.detections))
	copy(out, s.detections)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

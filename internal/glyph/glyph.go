// Package glyph maps extracted contours in bbox-relative source pixels
// into a TrueType outline in font units, applying the program's uniform
// scale, descender shift and per-character adjustments, and emits the
// resulting quadratic B-spline as a *glyf.Glyph.
package glyph

import (
	"math"

	"github.com/uberstorm/hebrewfontmaker/internal/extract"
	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/glyf"
)

const (
	// UnitsPerEm is the font's design grid resolution.
	UnitsPerEm = 1024
	// TargetHeight is the nominal cap height a glyph is scaled to.
	TargetHeight = 750
	// LSB is the fixed left side bearing applied to every glyph.
	LSB = 50
	// Ascender and Descender are the font-wide vertical metrics.
	Ascender  = 800
	Descender = -200
	// PreviewHeight is the browser-side preview glyph height, in CSS pixels.
	PreviewHeight = 80
	// PxToFont converts preview pixels to font units.
	PxToFont = float64(TargetHeight) / float64(PreviewHeight) // 9.375

	minAdvanceWidth = 100

	minLineContour  = 4
	minCurveContour = 6
)

// descenderLetters are the Hebrew final forms whose outline sits below the
// baseline and so need the font's descender shift applied.
var descenderLetters = map[rune]bool{
	'ף': true, 'ץ': true, 'ן': true, 'ק': true, 'ך': true,
}

// Adjustment is a per-character tuning record, all fields in preview-pixel
// units except Scale, which is a percentage (100 = unscaled).
type Adjustment struct {
	Scale   float64 `json:"scale"`   // percent, default 100
	OffsetX float64 `json:"offsetX"` // preview pixels
	OffsetY float64 `json:"offsetY"` // preview pixels
	Spacing float64 `json:"spacing"` // preview pixels
}

// DefaultAdjustment is the neutral adjustment applied when the caller has
// no per-character tuning on file.
var DefaultAdjustment = Adjustment{Scale: 100}

// Outline is the built glyph: a ready-to-encode TrueType glyph body plus
// the advance width and left side bearing the assembler writes into hmtx,
// and the point/contour counts the assembler folds into maxp's per-glyph
// maxima.
type Outline struct {
	Glyph      *glyf.Glyph
	Advance    uint16
	LSB        int16
	NumPoints  int
	NumContour int
}

// Build maps one character's extracted contours into font units and
// returns its TrueType outline. referenceHeight is the maximum bbox height
// across all assigned detections in the font; pass srcH itself when none is
// available yet (the first glyph assigned).
func Build(c rune, contours []extract.Contour, srcW, srcH int, referenceHeight float64, adj Adjustment) (*Outline, error) {
	if referenceHeight <= 0 {
		referenceHeight = float64(srcH)
	}
	scale := adj.Scale
	if scale == 0 {
		scale = 100
	}

	s0 := float64(TargetHeight) / referenceHeight
	s := s0 * (scale / 100)

	dShift := 0
	if descenderLetters[c] {
		dShift = Descender
	}

	offX := round(adj.OffsetX * PxToFont * (scale / 100))
	offY := round(-adj.OffsetY * PxToFont * (scale / 100))

	transform := func(p imaging.Point) (int, int) {
		fx := round(p.X*s) + LSB + offX
		fy := round((float64(srcH)-p.Y)*s) + offY + dShift
		return fx, fy
	}

	var glyfContours []glyf.Contour
	for _, ct := range contours {
		if ct.IsHole || len(ct.Points) < minLineContour {
			continue
		}
		glyfContours = append(glyfContours, emitContour(ct.Points, transform))
	}
	for _, ct := range contours {
		if !ct.IsHole || len(ct.Points) < minLineContour {
			continue
		}
		glyfContours = append(glyfContours, emitContour(ct.Points, transform))
	}

	g, err := glyf.BuildSimple(glyfContours, nil)
	if err != nil {
		return nil, err
	}

	aw := round(float64(srcW)*s) + 2*LSB + 2*round(adj.Spacing*PxToFont)
	if aw < minAdvanceWidth {
		aw = minAdvanceWidth
	}

	var numPoints int
	for _, gc := range glyfContours {
		numPoints += len(gc)
	}

	return &Outline{
		Glyph:      g,
		Advance:    uint16(aw),
		LSB:        LSB,
		NumPoints:  numPoints,
		NumContour: len(glyfContours),
	}, nil
}

// emitContour transforms one contour's points into font units and emits
// either a pure quadratic B-spline (>= 6 points, every supplied point an
// off-curve control with on-curve midpoints inserted between consecutive
// controls) or a straight-line polygon (4 or 5 points).
func emitContour(pts []imaging.Point, transform func(imaging.Point) (int, int)) glyf.Contour {
	n := len(pts)
	fxy := make([][2]int, n)
	for i, p := range pts {
		fx, fy := transform(p)
		fxy[i] = [2]int{fx, fy}
	}

	if n < minCurveContour {
		out := make(glyf.Contour, n)
		for i, xy := range fxy {
			out[i] = glyf.Point{X: funit.Int16(xy[0]), Y: funit.Int16(xy[1]), OnCurve: true}
		}
		return out
	}

	mid := func(a, b [2]int) (int, int) {
		return (a[0] + b[0]) / 2, (a[1] + b[1]) / 2
	}

	out := make(glyf.Contour, 0, 2*n)
	startX, startY := mid(fxy[n-1], fxy[0])
	out = append(out, glyf.Point{X: funit.Int16(startX), Y: funit.Int16(startY), OnCurve: true})
	for i := 0; i < n; i++ {
		next := fxy[(i+1)%n]
		mx, my := mid(fxy[i], next)
		out = append(out, glyf.Point{X: funit.Int16(fxy[i][0]), Y: funit.Int16(fxy[i][1]), OnCurve: false})
		if i == n-1 {
			break // the last midpoint is the start point, which closes the contour
		}
		out = append(out, glyf.Point{X: funit.Int16(mx), Y: funit.Int16(my), OnCurve: true})
	}
	return out
}

// Rect builds a single-contour rectangular outline directly in font units,
// used for the unconditionally injected .notdef glyph.
func Rect(x0, y0, x1, y1 int, advance uint16, lsb int16) (*Outline, error) {
	contour := glyf.Contour{
		{X: funit.Int16(x0), Y: funit.Int16(y0), OnCurve: true},
		{X: funit.Int16(x1), Y: funit.Int16(y0), OnCurve: true},
		{X: funit.Int16(x1), Y: funit.Int16(y1), OnCurve: true},
		{X: funit.Int16(x0), Y: funit.Int16(y1), OnCurve: true},
	}
	g, err := glyf.BuildSimple([]glyf.Contour{contour}, nil)
	if err != nil {
		return nil, err
	}
	return &Outline{
		Glyph:      g,
		Advance:    advance,
		LSB:        lsb,
		NumPoints:  len(contour),
		NumContour: 1,
	}, nil
}

// Empty builds a zero-contour glyph, used for the "space" glyph.
func Empty(advance uint16, lsb int16) (*Outline, error) {
	g, err := glyf.BuildSimple(nil, nil)
	if err != nil {
		return nil, err
	}
	return &Outline{Glyph: g, Advance: advance, LSB: lsb}, nil
}

func round(v float64) int {
	return int(math.Round(v))
}

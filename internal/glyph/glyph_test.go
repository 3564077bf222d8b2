package glyph

import (
	"testing"

	"github.com/uberstorm/hebrewfontmaker/internal/extract"
	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

func squareContour(size float64) []extract.Contour {
	return []extract.Contour{{
		Points: []imaging.Point{
			{X: 0, Y: 0}, {X: size, Y: 0}, {X: size, Y: size}, {X: 0, Y: size},
		},
	}}
}

func TestBuildUniformScaling(t *testing.T) {
	tall, err := Build('a', squareContour(100), 100, 100, 100, DefaultAdjustment)
	if err != nil {
		t.Fatalf("Build (src_h=100): %v", err)
	}
	short, err := Build('a', squareContour(50), 50, 50, 100, DefaultAdjustment)
	if err != nil {
		t.Fatalf("Build (src_h=50): %v", err)
	}

	tallHeight := glyphHeight(t, tall)
	shortHeight := glyphHeight(t, short)

	if tallHeight != 750 {
		t.Errorf("tall glyph height = %d, want 750", tallHeight)
	}
	if shortHeight != 375 {
		t.Errorf("short glyph height = %d, want 375", shortHeight)
	}
}

func TestBuildDescenderShift(t *testing.T) {
	out, err := Build('ק', squareContour(100), 100, 100, 100, DefaultAdjustment)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	info, err := out.Glyph.Outline()
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	minY := int16(1 << 14)
	for _, c := range info.Contours {
		for _, p := range c {
			if int16(p.Y) < minY {
				minY = int16(p.Y)
			}
		}
	}
	if minY != -200 {
		t.Errorf("lowest y = %d, want -200 for a descender letter with no offset", minY)
	}
}

func TestBuildAdvanceWidthMinimum(t *testing.T) {
	out, err := Build('a', squareContour(1), 1, 1, 100, DefaultAdjustment)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out.Advance < minAdvanceWidth {
		t.Errorf("advance = %d, want >= %d", out.Advance, minAdvanceWidth)
	}
}

func TestEmitContourPointCountsForBSpline(t *testing.T) {
	pts := make([]imaging.Point, 8)
	for i := range pts {
		pts[i] = imaging.Point{X: float64(i), Y: float64(i)}
	}
	identity := func(p imaging.Point) (int, int) { return int(p.X), int(p.Y) }
	c := emitContour(pts, identity)

	var onCurve, offCurve int
	for _, p := range c {
		if p.OnCurve {
			onCurve++
		} else {
			offCurve++
		}
	}
	if onCurve != offCurve {
		t.Errorf("on-curve count %d != off-curve count %d for a pure B-spline contour", onCurve, offCurve)
	}
	if offCurve != len(pts) {
		t.Errorf("off-curve count = %d, want %d (one per control point)", offCurve, len(pts))
	}
}

func glyphHeight(t *testing.T, o *Outline) int {
	t.Helper()
	info, err := o.Glyph.Outline()
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	minY, maxY := int16(1<<14), int16(-1<<14)
	for _, c := range info.Contours {
		for _, p := range c {
			if int16(p.Y) < minY {
				minY = int16(p.Y)
			}
			if int16(p.Y) > maxY {
				maxY = int16(p.Y)
			}
		}
	}
	return int(maxY - minY)
}

package extract

import (
	"testing"

	"github.com/uberstorm/hebrewfontmaker/internal/detect"
	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

func squareBinary(size, inkX0, inkY0, inkW, inkH int) *imaging.Binary {
	b := imaging.NewBinary(size, size)
	for y := inkY0; y < inkY0+inkH; y++ {
		for x := inkX0; x < inkX0+inkW; x++ {
			b.Set(x, y, 255)
		}
	}
	return b
}

func TestExtractProducesBBoxRelativeOuterContour(t *testing.T) {
	b := squareBinary(60, 20, 20, 20, 20)
	d := detect.Detection{BBox: detect.BBox{X: 20, Y: 20, W: 20, H: 20}}

	contours, err := Extract(b, nil, d)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	var outer *Contour
	for i := range contours {
		if !contours[i].IsHole {
			outer = &contours[i]
			break
		}
	}
	if outer == nil {
		t.Fatal("no outer contour in result")
	}

	// The ink square spans [20,40) inside a 20x20 bbox cropped with 4px
	// padding. Every point should land within [-4, 24) in both axes once
	// translated to bbox-relative coordinates.
	for _, p := range outer.Points {
		if p.X < -5 || p.X > 25 || p.Y < -5 || p.Y > 25 {
			t.Fatalf("point %+v outside expected bbox-relative range", p)
		}
	}
}

func TestExtractDropsTinyContours(t *testing.T) {
	b := imaging.NewBinary(40, 40)
	b.Set(10, 10, 255) // single pixel: far fewer than minRawPoints
	d := detect.Detection{BBox: detect.BBox{X: 5, Y: 5, W: 10, H: 10}}

	if _, err := Extract(b, nil, d); err != ErrNoContours {
		t.Errorf("Extract of a single-pixel blob: err = %v, want ErrNoContours", err)
	}
}

func TestExtractReThresholdsFromOriginalWhenSupplied(t *testing.T) {
	gray := imaging.NewGray(40, 40)
	for i := range gray.Pix {
		gray.Pix[i] = 255 // white paper background
	}
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			gray.Set(x, y, 20) // dark ink square
		}
	}
	// An empty binary: if Extract used it instead of re-thresholding the
	// original, this would yield no contours at all.
	emptyBinary := imaging.NewBinary(40, 40)
	d := detect.Detection{BBox: detect.BBox{X: 10, Y: 10, W: 20, H: 20}}

	contours, err := Extract(emptyBinary, gray, d)
	if err != nil {
		t.Fatalf("Extract with original supplied: %v", err)
	}
	if len(contours) == 0 {
		t.Fatal("expected at least one contour from the re-thresholded original")
	}
}

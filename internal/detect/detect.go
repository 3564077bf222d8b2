// Package detect finds letter-shaped ink blobs in a scanned handwriting
// sheet, merges dot/stroke fragments into their parent letter, and orders
// the result for right-to-left reading.
package detect

import (
	"image"
	"sort"

	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

const (
	// MinLetterSize is the smallest bounding-box dimension, in pixels, a
	// component must have on both axes to be classified as a Letter
	// outright rather than a Fragment.
	MinLetterSize = 50
	// MaxLetterSize rejects components implausibly large to be a single
	// handwritten letter (usually a scan artifact or sheet border).
	MaxLetterSize = 5000
	noiseFloor    = 8

	minAspect = 0.15
	maxAspect = 6.0
	minFill   = 0.08
)

// BBox is an axis-aligned bounding box in pixel coordinates.
type BBox struct {
	X, Y, W, H int
}

func (b BBox) centerX() float64 { return float64(b.X) + float64(b.W)/2 }

// Detection is one letter-shaped ink blob.
type Detection struct {
	BBox  BBox
	Outer []imaging.Point
	Area  int
}

// FillRatio is Area / (W*H).
func (d Detection) FillRatio() float64 {
	if d.BBox.W == 0 || d.BBox.H == 0 {
		return 0
	}
	return float64(d.Area) / float64(d.BBox.W*d.BBox.H)
}

// Result is the output of Detect.
type Result struct {
	Detections []Detection
	Original   *imaging.Gray
	Binary     *imaging.Binary
}

// Detect runs the full detection pipeline against a decoded
// image: preprocessing, binarization, component classification, fragment
// merging and reading-order sorting. separationLevel is clamped to [0,5].
func Detect(src image.Image, separationLevel int) (*Result, error) {
	if separationLevel < 0 {
		separationLevel = 0
	}
	if separationLevel > 5 {
		separationLevel = 5
	}

	gray := imaging.ToGray(src)
	denoised := imaging.Bilateral(gray, 4, 8, 20)
	enhanced := imaging.CLAHE(denoised, 8, 2.0)

	otsu := imaging.BinarizeOtsu(enhanced)
	adaptive := imaging.BinarizeAdaptiveGaussian(enhanced, 25, 10)
	binary := imaging.ChooseBinarization(otsu, adaptive)

	if separationLevel >= 1 {
		size := 2 + separationLevel
		iterations := 1
		switch {
		case separationLevel >= 5:
			iterations = 3
		case separationLevel >= 3:
			iterations = 2
		}
		binary = imaging.Open(binary, size, iterations)
	}

	comps := imaging.FindComponents(binary)

	var letters, fragments []Detection
	for _, c := range comps {
		d := Detection{
			BBox:  BBox{X: c.X, Y: c.Y, W: c.W, H: c.H},
			Outer: c.Outer,
			Area:  c.Area,
		}
		switch classify(d, binary.Width, binary.Height) {
		case classNoise:
			continue
		case classFragment:
			fragments = append(fragments, d)
		default:
			letters = append(letters, d)
		}
	}

	merged := mergeFragments(letters, fragments)
	ordered := sortReadingOrder(merged)

	return &Result{
		Detections: ordered,
		Original:   gray,
		Binary:     binary,
	}, nil
}

type class int

const (
	classLetter class = iota
	classFragment
	classNoise
)

func classify(d Detection, imgW, imgH int) class {
	w, h := d.BBox.W, d.BBox.H
	if w < noiseFloor || h < noiseFloor {
		return classNoise
	}
	if w > MaxLetterSize || h > MaxLetterSize {
		return classNoise
	}
	if float64(w) >= 0.9*float64(imgW) && float64(h) >= 0.9*float64(imgH) {
		return classNoise
	}
	aspect := float64(w) / float64(h)
	if aspect < minAspect || aspect > maxAspect {
		return classNoise
	}
	if d.FillRatio() < minFill {
		return classNoise
	}
	if w < MinLetterSize || h < MinLetterSize {
		return classFragment
	}
	return classLetter
}

// sortReadingOrder groups detections into rows (top-to-bottom) and sorts
// each row right-to-left, per Hebrew reading order.
func sortReadingOrder(dets []Detection) []Detection {
	if len(dets) == 0 {
		return dets
	}

	var totalH int
	for _, d := range dets {
		totalH += d.BBox.H
	}
	meanH := float64(totalH) / float64(len(dets))

	byY := make([]Detection, len(dets))
	copy(byY, dets)
	sort.SliceStable(byY, func(i, j int) bool { return byY[i].BBox.Y < byY[j].BBox.Y })

	var rows [][]Detection
	for _, d := range byY {
		if len(rows) == 0 {
			rows = append(rows, []Detection{d})
			continue
		}
		last := rows[len(rows)-1]
		if float64(d.BBox.Y-last[0].BBox.Y) < 0.5*meanH {
			rows[len(rows)-1] = append(last, d)
		} else {
			rows = append(rows, []Detection{d})
		}
	}

	var out []Detection
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].BBox.X > row[j].BBox.X })
		out = append(out, row...)
	}
	return out
}

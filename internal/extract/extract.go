// Package extract turns one accepted Detection into a smoothed, resampled
// set of closed outer/hole contours in bbox-relative coordinates, ready for
// the glyph builder's coordinate transform.
package extract

import (
	"errors"

	"github.com/uberstorm/hebrewfontmaker/internal/detect"
	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

// Padding is the fixed border, in pixels, added around a detection's
// bounding box before contour extraction.
const Padding = 4

// minRawPoints drops any traced contour with fewer raw points than this;
// such a contour cannot carry a meaningful outline after smoothing.
const minRawPoints = 6

// ErrNoContours is returned when a detection's crop yields no usable
// outer contour (a blank or fully eroded region).
var ErrNoContours = errors.New("extract: no outer contour found")

// Contour is one closed, smoothed, resampled polygon in coordinates
// relative to the detection's bounding box (the padding border has
// already been subtracted out).
type Contour struct {
	Points []imaging.Point
	IsHole bool
}

// Extract crops to d's bounding box with Padding, enumerates the outer and
// hole contour hierarchy, and smooths/resamples every contour (see finish).
// If original is non-nil, the crop is re-thresholded
// with Otsu on the original grayscale image rather than using the stored
// detection-pipeline binary, which avoids the distortion the
// bilateral+CLAHE+morphological-opening pipeline introduces for the sake
// of robust detection.
func Extract(binary *imaging.Binary, original *imaging.Gray, d detect.Detection) ([]Contour, error) {
	x0 := d.BBox.X - Padding
	y0 := d.BBox.Y - Padding
	w := d.BBox.W + 2*Padding
	h := d.BBox.H + 2*Padding

	var crop *imaging.Binary
	if original != nil {
		grayCrop := cropGray(original, x0, y0, w, h)
		crop = imaging.BinarizeOtsu(grayCrop)
	} else {
		crop = binary.Crop(x0, y0, w, h)
	}

	raw := imaging.ExtractContours(crop)

	var out []Contour
	for _, c := range raw {
		if len(c.Points) < minRawPoints {
			continue
		}
		pts := finish(c.Points)
		offset(pts, -Padding, -Padding)
		out = append(out, Contour{Points: pts, IsHole: c.IsHole})
	}
	if len(out) == 0 {
		return nil, ErrNoContours
	}

	hasOuter := false
	for _, c := range out {
		if !c.IsHole {
			hasOuter = true
			break
		}
	}
	if !hasOuter {
		return nil, ErrNoContours
	}

	return out, nil
}

// finish smooths then resamples a raw traced contour to a stable point
// count, using imaging.SmoothWindow and imaging.ResampleTarget.
func finish(pts []imaging.Point) []imaging.Point {
	n := len(pts)
	smoothed := imaging.SmoothCircular(pts, imaging.SmoothWindow(n))
	return imaging.Resample(smoothed, imaging.ResampleTarget(n))
}

func offset(pts []imaging.Point, dx, dy int) {
	for i := range pts {
		pts[i].X += float64(dx)
		pts[i].Y += float64(dy)
	}
}

func cropGray(g *imaging.Gray, x, y, w, h int) *imaging.Gray {
	out := imaging.NewGray(w, h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			out.Set(i, j, g.At(x+i, y+j))
		}
	}
	return out
}

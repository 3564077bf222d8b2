package detect

import (
	"sort"

	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

// mergeFragments attaches each small candidate (every fragment, plus any
// letter whose area is less than a quarter of the median letter area) to
// the nearest eligible larger letter. Unmerged fragments are discarded;
// unmerged small letters are kept unchanged.
func mergeFragments(letters, fragments []Detection) []Detection {
	if len(letters) == 0 {
		return letters
	}

	medianArea := median(areasOf(letters))
	medianHeight := median(heightsOf(letters))

	isSmallCandidate := make([]bool, len(letters))
	for i, l := range letters {
		if float64(l.Area) < 0.25*medianArea {
			isSmallCandidate[i] = true
		}
	}

	type candidate struct {
		det     Detection
		fromIdx int // index into letters, valid only when !isFrag
		isFrag  bool
	}
	var small []candidate
	for _, f := range fragments {
		small = append(small, candidate{det: f, isFrag: true})
	}
	for i, l := range letters {
		if isSmallCandidate[i] {
			small = append(small, candidate{det: l, fromIdx: i})
		}
	}

	attachedTo := make(map[int]int) // small candidate index -> letter index
	for si, s := range small {
		bestL, bestScore := -1, 0.0
		for li, l := range letters {
			if !s.isFrag && li == s.fromIdx {
				continue // a letter cannot merge into itself
			}
			if isSmallCandidate[li] {
				continue // target must not itself be a merge candidate
			}

			if !horizontallyAligned(s.det.BBox, l.BBox) {
				continue
			}
			gap := verticalGap(s.det.BBox, l.BBox)
			if gap > 0.8*medianHeight {
				continue
			}

			score := gap + 0.5*absF(s.det.BBox.centerX()-l.BBox.centerX())
			if bestL == -1 || score < bestScore {
				bestL, bestScore = li, score
			}
		}
		if bestL >= 0 {
			attachedTo[si] = bestL
		}
	}

	// apply merges: union bbox, sum area, concat contours
	merged := make([]Detection, len(letters))
	copy(merged, letters)
	consumed := make(map[int]bool) // letters indices that were themselves small and got merged away

	for si, s := range small {
		li, ok := attachedTo[si]
		if !ok {
			continue
		}
		merged[li] = unionDetection(merged[li], s.det)
		if !s.isFrag {
			consumed[s.fromIdx] = true
		}
	}

	var out []Detection
	for i, d := range merged {
		if consumed[i] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func horizontallyAligned(s, l BBox) bool {
	maxW := float64(l.W)
	if float64(s.W) > maxW {
		maxW = float64(s.W)
	}
	return absF(s.centerX()-l.centerX()) <= 0.6*maxW
}

// verticalGap returns the gap between two bounding boxes' vertical extents,
// 0 if they overlap.
func verticalGap(a, b BBox) float64 {
	aTop, aBot := a.Y, a.Y+a.H
	bTop, bBot := b.Y, b.Y+b.H
	if aBot < bTop {
		return float64(bTop - aBot)
	}
	if bBot < aTop {
		return float64(aTop - bBot)
	}
	return 0
}

func unionDetection(a, b Detection) Detection {
	x0 := minInt(a.BBox.X, b.BBox.X)
	y0 := minInt(a.BBox.Y, b.BBox.Y)
	x1 := maxInt(a.BBox.X+a.BBox.W, b.BBox.X+b.BBox.W)
	y1 := maxInt(a.BBox.Y+a.BBox.H, b.BBox.Y+b.BBox.H)

	outer := make([]imaging.Point, 0, len(a.Outer)+len(b.Outer))
	outer = append(outer, a.Outer...)
	outer = append(outer, b.Outer...)

	return Detection{
		BBox:  BBox{X: x0, Y: y0, W: x1 - x0, H: y1 - y0},
		Area:  a.Area + b.Area,
		Outer: outer,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func areasOf(dets []Detection) []float64 {
	out := make([]float64, len(dets))
	for i, d := range dets {
		out[i] = float64(d.Area)
	}
	return out
}

func heightsOf(dets []Detection) []float64 {
	out := make([]float64, len(dets))
	for i, d := range dets {
		out[i] = float64(d.BBox.H)
	}
	return out
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

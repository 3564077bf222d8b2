package imaging

import "math"

// Bilateral applies an edge-preserving smoothing filter: each output pixel
// is a weighted average of its neighborhood, weighted both by spatial
// distance and by intensity difference, so strokes keep crisp edges while
// paper-grain noise is smoothed away.
func Bilateral(g *Gray, radius int, sigmaSpace, sigmaColor float64) *Gray {
	if radius <= 0 {
		radius = 4
	}
	out := NewGray(g.Width, g.Height)

	spatial := make([][]float64, 2*radius+1)
	for dy := -radius; dy <= radius; dy++ {
		row := make([]float64, 2*radius+1)
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			row[dx+radius] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
		spatial[dy+radius] = row
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			center := float64(g.At(x, y))
			var sum, weightSum float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					v := float64(g.At(x+dx, y+dy))
					colorDist := v - center
					w := spatial[dy+radius][dx+radius] *
						math.Exp(-(colorDist * colorDist) / (2 * sigmaColor * sigmaColor))
					sum += v * w
					weightSum += w
				}
			}
			if weightSum == 0 {
				out.Set(x, y, g.At(x, y))
				continue
			}
			out.Set(x, y, uint8(clamp(sum/weightSum, 0, 255)))
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CLAHE applies contrast-limited adaptive histogram equalization: the image
// is divided into tiles, each tile's histogram is equalized with a clip
// limit to avoid amplifying noise, and tile results are bilinearly
// interpolated across pixel positions to avoid tile-boundary artifacts.
func CLAHE(g *Gray, tileSize int, clipLimit float64) *Gray {
	if tileSize <= 0 {
		tileSize = 8
	}
	tilesX := (g.Width + tileSize - 1) / tileSize
	tilesY := (g.Height + tileSize - 1) / tileSize
	if tilesX == 0 {
		tilesX = 1
	}
	if tilesY == 0 {
		tilesY = 1
	}

	// build a clipped-histogram equalization mapping per tile
	mappings := make([][][256]uint8, tilesY)
	for ty := 0; ty < tilesY; ty++ {
		mappings[ty] = make([][256]uint8, tilesX)
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileSize, ty*tileSize
			x1, y1 := min(x0+tileSize, g.Width), min(y0+tileSize, g.Height)
			mappings[ty][tx] = equalizeTile(g, x0, y0, x1, y1, clipLimit)
		}
	}

	out := NewGray(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		// tile row coordinates and interpolation weight
		fy := float64(y)/float64(tileSize) - 0.5
		ty0 := int(math.Floor(fy))
		wy := fy - float64(ty0)
		ty1 := ty0 + 1
		ty0 = clampInt(ty0, 0, tilesY-1)
		ty1 = clampInt(ty1, 0, tilesY-1)

		for x := 0; x < g.Width; x++ {
			fx := float64(x)/float64(tileSize) - 0.5
			tx0 := int(math.Floor(fx))
			wx := fx - float64(tx0)
			tx1 := tx0 + 1
			tx0 = clampInt(tx0, 0, tilesX-1)
			tx1 = clampInt(tx1, 0, tilesX-1)

			v := g.At(x, y)
			v00 := float64(mappings[ty0][tx0][v])
			v01 := float64(mappings[ty0][tx1][v])
			v10 := float64(mappings[ty1][tx0][v])
			v11 := float64(mappings[ty1][tx1][v])
			top := v00*(1-wx) + v01*wx
			bot := v10*(1-wx) + v11*wx
			out.Set(x, y, uint8(clamp(top*(1-wy)+bot*wy, 0, 255)))
		}
	}
	return out
}

func equalizeTile(g *Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[g.At(x, y)]++
			n++
		}
	}
	if n == 0 {
		var id [256]uint8
		for i := range id {
			id[i] = uint8(i)
		}
		return id
	}

	clip := int(clipLimit * float64(n) / 256.0)
	if clip < 1 {
		clip = 1
	}
	var excess int
	for i, c := range hist {
		if c > clip {
			excess += c - clip
			hist[i] = clip
		}
	}
	redistrib := excess / 256
	for i := range hist {
		hist[i] += redistrib
	}

	var mapping [256]uint8
	var cum int
	for i, c := range hist {
		cum += c
		mapping[i] = uint8(clamp(float64(cum)*255.0/float64(n), 0, 255))
	}
	return mapping
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
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

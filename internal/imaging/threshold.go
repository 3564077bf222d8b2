package imaging

import "math"

// OtsuThreshold computes the Otsu global threshold for a grayscale image,
// the value in [0,255] that minimizes intra-class variance between the
// foreground and background pixel populations.
func OtsuThreshold(g *Gray) uint8 {
	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}
	total := len(g.Pix)
	if total == 0 {
		return 128
	}

	var sum float64
	for t := 0; t < 256; t++ {
		sum += float64(t) * float64(hist[t])
	}

	var sumB, wB float64
	var best uint8
	var bestVar float64
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best
}

// BinarizeOtsu applies the Otsu threshold, inverting so that ink (originally
// dark pixels on a light background) becomes foreground (255).
func BinarizeOtsu(g *Gray) *Binary {
	t := OtsuThreshold(g)
	out := NewBinary(g.Width, g.Height)
	for i, v := range g.Pix {
		if v <= t {
			out.Pix[i] = 255
		}
	}
	return out
}

// BinarizeAdaptiveGaussian thresholds each pixel against a Gaussian-weighted
// mean of its neighborhood (size x size, size odd) minus a constant C,
// inverting so ink becomes foreground. This matches cv2.adaptiveThreshold's
// ADAPTIVE_THRESH_GAUSSIAN_C / THRESH_BINARY_INV behavior.
func BinarizeAdaptiveGaussian(g *Gray, size int, c float64) *Binary {
	if size%2 == 0 {
		size++
	}
	radius := size / 2
	kernel := gaussianKernel1D(size, float64(size)/6.0)

	// separable blur: horizontal then vertical
	tmp := make([]float64, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				acc += float64(g.At(x+k, y)) * kernel[k+radius]
			}
			tmp[y*g.Width+x] = acc
		}
	}
	mean := make([]float64, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				yy := y + k
				if yy < 0 {
					yy = 0
				} else if yy >= g.Height {
					yy = g.Height - 1
				}
				acc += tmp[yy*g.Width+x] * kernel[k+radius]
			}
			mean[y*g.Width+x] = acc
		}
	}

	out := NewBinary(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := float64(g.At(x, y))
			if v <= mean[y*g.Width+x]-c {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}

func gaussianKernel1D(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 1
	}
	k := make([]float64, size)
	radius := size / 2
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// ChooseBinarization picks between the Otsu and adaptive-Gaussian
// binarizations based on the Otsu foreground coverage fraction, per the
// coverage heuristic: Otsu is preferred when it isn't obviously degenerate
// (near-empty or near-total foreground).
func ChooseBinarization(otsu, adaptive *Binary) *Binary {
	cov := otsu.Coverage()
	if cov > 0.01 && cov < 0.6 {
		return otsu
	}
	return adaptive
}

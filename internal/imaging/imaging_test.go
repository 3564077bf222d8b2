package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayBoundsAreSafe(t *testing.T) {
	g := NewGray(4, 4)
	g.Set(-1, -1, 9)
	g.Set(100, 100, 9)
	if g.At(-1, -1) != 0 || g.At(100, 100) != 0 {
		t.Fatalf("out-of-bounds At should read 0")
	}
	g.Set(2, 2, 200)
	if g.At(2, 2) != 200 {
		t.Fatalf("At(2,2) = %d, want 200", g.At(2, 2))
	}
}

func TestBinaryCoverage(t *testing.T) {
	b := NewBinary(10, 10)
	for i := 0; i < 25; i++ {
		b.Pix[i] = 255
	}
	if got, want := b.Coverage(), 0.25; got != want {
		t.Errorf("Coverage() = %v, want %v", got, want)
	}
}

func TestBinaryCrop(t *testing.T) {
	b := NewBinary(10, 10)
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			b.Set(x, y, 255)
		}
	}
	crop := b.Crop(2, 2, 4, 4)
	if crop.Coverage() != 1 {
		t.Errorf("Crop coverage = %v, want 1 (fully foreground)", crop.Coverage())
	}

	edge := b.Crop(8, 8, 4, 4)
	if edge.Width != 4 || edge.Height != 4 {
		t.Errorf("Crop size = %dx%d, want 4x4 even past the source bounds", edge.Width, edge.Height)
	}
}

func halfDarkGray(w, h int) *Gray {
	g := NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				g.Set(x, y, 20)
			} else {
				g.Set(x, y, 230)
			}
		}
	}
	return g
}

func TestOtsuThresholdSeparatesTwoLevels(t *testing.T) {
	g := halfDarkGray(20, 20)
	th := OtsuThreshold(g)
	if th < 20 || th > 229 {
		t.Fatalf("OtsuThreshold = %d, want a cut point between the two populations", th)
	}

	bin := BinarizeOtsu(g)
	if bin.At(0, 0) == 0 {
		t.Errorf("dark half should binarize to foreground")
	}
	if bin.At(19, 0) != 0 {
		t.Errorf("light half should binarize to background")
	}
}

func TestErodeShrinksDilateGrows(t *testing.T) {
	b := NewBinary(9, 9)
	b.Set(4, 4, 255)

	kernel := ellipticalKernel(3)
	grown := Dilate(b, kernel)
	if grown.Coverage() <= b.Coverage() {
		t.Errorf("Dilate should not shrink foreground coverage")
	}

	eroded := Erode(grown, kernel)
	if eroded.At(4, 4) == 0 {
		t.Errorf("center pixel should survive erode after a dilate that grew around it")
	}
}

func TestOpenRemovesIsolatedSpeckle(t *testing.T) {
	b := NewBinary(20, 20)
	b.Set(2, 2, 255) // single isolated pixel

	opened := Open(b, 3, 1)
	if opened.Coverage() != 0 {
		t.Errorf("Open should erase a speckle smaller than the structuring element")
	}
}

func TestToGrayAndBinaryFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(50)
			if x >= 2 {
				v = 200
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	gray := ToGray(img)
	if gray.At(0, 0) != 50 || gray.At(3, 0) != 200 {
		t.Fatalf("ToGray did not preserve pixel values")
	}

	bin := BinaryFromImage(img)
	if bin.At(0, 0) != 0 {
		t.Errorf("pixel below 128 should decode as background")
	}
	if bin.At(3, 0) != 255 {
		t.Errorf("pixel at or above 128 should decode as foreground")
	}
}

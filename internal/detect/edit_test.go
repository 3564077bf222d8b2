package detect

import (
	"testing"

	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

func TestAddClampsAndRejectsTooSmall(t *testing.T) {
	dets, err := Add(nil, -5, -5, 20, 20, 100, 100)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("len(dets) = %d, want 1", len(dets))
	}
	if dets[0].BBox.X != 0 || dets[0].BBox.Y != 0 {
		t.Errorf("bbox origin = (%d,%d), want clamped to (0,0)", dets[0].BBox.X, dets[0].BBox.Y)
	}

	if _, err := Add(nil, 0, 0, 2, 2, 100, 100); err != ErrTooSmall {
		t.Errorf("Add with 2x2 box: err = %v, want ErrTooSmall", err)
	}
}

func TestAddOverflowsClampToImageBounds(t *testing.T) {
	dets, err := Add(nil, 90, 90, 50, 50, 100, 100)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	b := dets[0].BBox
	if b.X+b.W > 100 || b.Y+b.H > 100 {
		t.Errorf("bbox %+v exceeds 100x100 image bounds", b)
	}
}

func TestRemove(t *testing.T) {
	dets := []Detection{{BBox: BBox{W: 10, H: 10}}, {BBox: BBox{W: 20, H: 20}}}
	out, err := Remove(dets, 0)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(out) != 1 || out[0].BBox.W != 20 {
		t.Errorf("Remove(0) = %+v, want the second detection only", out)
	}

	if _, err := Remove(dets, 5); err == nil {
		t.Error("Remove(5) on a 2-element list: want error, got nil")
	}
}

func TestMergeUnionsAtSmallestIndex(t *testing.T) {
	dets := []Detection{
		{BBox: BBox{X: 0, Y: 0, W: 10, H: 10}, Area: 100},
		{BBox: BBox{X: 20, Y: 20, W: 10, H: 10}, Area: 100},
		{BBox: BBox{X: 100, Y: 100, W: 5, H: 5}, Area: 25},
	}
	out, err := Merge(dets, []int{1, 0})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	want := BBox{X: 0, Y: 0, W: 30, H: 30}
	if out[0].BBox != want {
		t.Errorf("merged bbox = %+v, want %+v", out[0].BBox, want)
	}
	if out[0].Area != 200 {
		t.Errorf("merged area = %d, want 200", out[0].Area)
	}

	if _, err := Merge(dets, []int{0}); err == nil {
		t.Error("Merge with one index: want error, got nil")
	}
}

func TestSplitRequiresTwoComponents(t *testing.T) {
	bin := imaging.NewBinary(40, 40)
	for y := 18; y < 22; y++ {
		for x := 18; x < 22; x++ {
			bin.Set(x, y, 255)
		}
	}
	dets := []Detection{{BBox: BBox{X: 15, Y: 15, W: 10, H: 10}}}
	if _, err := Split(dets, 0, bin); err != ErrNotEnoughParts {
		t.Errorf("Split of a single-component crop: err = %v, want ErrNotEnoughParts", err)
	}
}

func TestClassifyRejectsFullSheetBackgroundBlob(t *testing.T) {
	d := Detection{BBox: BBox{W: 4000, H: 4500}, Area: 4000 * 4500}
	if got := classify(d, 4400, 5000); got != classNoise {
		t.Errorf("classify of a 4000x4500 blob on a 4400x5000 sheet = %v, want classNoise", got)
	}
}

func TestClassifyAcceptsLetterSizedComponent(t *testing.T) {
	d := Detection{BBox: BBox{W: 200, H: 250}, Area: 200 * 250 / 2}
	if got := classify(d, 4400, 5000); got != classLetter {
		t.Errorf("classify of a normal letter-sized blob = %v, want classLetter", got)
	}
}

func TestSplitSortsRightToLeft(t *testing.T) {
	bin := imaging.NewBinary(60, 30)
	for y := 10; y < 20; y++ {
		for x := 5; x < 14; x++ {
			bin.Set(x, y, 255)
		}
		for x := 40; x < 49; x++ {
			bin.Set(x, y, 255)
		}
	}
	dets := []Detection{{BBox: BBox{X: 0, Y: 5, W: 55, H: 20}}}
	out, err := Split(dets, 0, bin)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].BBox.X < out[1].BBox.X {
		t.Errorf("parts not sorted right-to-left: %+v then %+v", out[0].BBox, out[1].BBox)
	}
}

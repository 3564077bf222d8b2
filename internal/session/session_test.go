package session

import (
	"image"
	"image/color"
	"testing"

	"github.com/uberstorm/hebrewfontmaker/internal/glyph"
)

func sheetImage(w, h int, letters []image.Rectangle) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for _, r := range letters {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

func twoLetterSheet() image.Image {
	return sheetImage(200, 200, []image.Rectangle{
		image.Rect(20, 20, 80, 80),
		image.Rect(120, 20, 180, 80),
	})
}

func TestUploadClearsAssignmentsAndDetects(t *testing.T) {
	s := New()
	dets, err := s.Upload(twoLetterSheet(), 0)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(dets) == 0 {
		t.Fatal("Upload produced no detections from a two-letter sheet")
	}

	if _, err := s.AssignLetters(map[rune]int{'א': 0}); err != nil {
		t.Fatalf("AssignLetters: %v", err)
	}

	if _, err := s.Upload(twoLetterSheet(), 0); err != nil {
		t.Fatalf("second Upload: %v", err)
	}
	if len(s.assignments) != 0 {
		t.Errorf("assignments after re-upload = %v, want empty", s.assignments)
	}
}

func TestRedetectClearsAssignmentsAndAdjustments(t *testing.T) {
	s := New()
	if _, err := s.Upload(twoLetterSheet(), 0); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := s.AssignLetters(map[rune]int{'א': 0}); err != nil {
		t.Fatalf("AssignLetters: %v", err)
	}
	s.SetAdjustment('א', glyph.Adjustment{})

	if _, err := s.Redetect(1); err != nil {
		t.Fatalf("Redetect: %v", err)
	}
	if len(s.assignments) != 0 {
		t.Errorf("assignments after Redetect = %v, want empty", s.assignments)
	}
	if len(s.adjustments) != 0 {
		t.Errorf("adjustments after Redetect = %v, want empty", s.adjustments)
	}
}

func TestGenerateFailsWithoutAssignments(t *testing.T) {
	s := New()
	if _, err := s.Upload(twoLetterSheet(), 0); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, _, err := s.Generate(GenerateParams{FontName: "Test"}); err != ErrNoAssignments {
		t.Errorf("Generate with no assignments: err = %v, want ErrNoAssignments", err)
	}
}

func TestRemoveDetectionShiftsAssignments(t *testing.T) {
	s := New()
	if _, err := s.Upload(twoLetterSheet(), 0); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(s.detections) < 2 {
		t.Skip("fixture did not yield two detections; nothing to shift")
	}
	if _, err := s.AssignLetters(map[rune]int{'א': 0, 'ב': 1}); err != nil {
		t.Fatalf("AssignLetters: %v", err)
	}
	if _, err := s.RemoveDetection(0); err != nil {
		t.Fatalf("RemoveDetection: %v", err)
	}
	if idx, ok := s.assignments['ב']; !ok || idx != 0 {
		t.Errorf("assignment for ב after removing index 0 = (%d, %v), want (0, true)", idx, ok)
	}
	if _, ok := s.assignments['א']; ok {
		t.Errorf("assignment for א should have been dropped along with its detection")
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	s := New()
	if _, err := s.Upload(twoLetterSheet(), 0); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(s.detections) == 0 {
		t.Fatal("no detections to assign")
	}
	if _, err := s.AssignLetters(map[rune]int{'א': 0}); err != nil {
		t.Fatalf("AssignLetters: %v", err)
	}
	data, count, err := s.Generate(GenerateParams{FontName: "Test Font"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if count != 1 {
		t.Errorf("glyph count = %d, want 1", count)
	}
	if len(data) == 0 {
		t.Error("Generate returned no font bytes")
	}
}

package fallback

import (
	"testing"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/glyf"
)

func TestBuildCharsetCoversRequiredSets(t *testing.T) {
	cs := buildCharset()
	has := func(r rune) bool {
		for _, c := range cs {
			if c == r {
				return true
			}
		}
		return false
	}
	for r := '0'; r <= '9'; r++ {
		if !has(r) {
			t.Errorf("charset missing digit %q", r)
		}
	}
	for _, r := range []rune{'!', '(', ')', '[', ']', '{', '}'} {
		if !has(r) {
			t.Errorf("charset missing punctuation %q", r)
		}
	}
	for _, r := range []rune{'־', '׀', '׃', '׳', '״'} {
		if !has(r) {
			t.Errorf("charset missing Hebrew punctuation mark %U", r)
		}
	}
}

func TestLoadReturnsNilNilWhenNoFontFound(t *testing.T) {
	orig := SearchPaths
	SearchPaths = []string{"/nonexistent/path/does-not-exist.ttf"}
	defer func() { SearchPaths = orig }()

	font, err := Load()
	if err != nil {
		t.Fatalf("Load with no candidate fonts: err = %v, want nil", err)
	}
	if font != nil {
		t.Errorf("Load with no candidate fonts: font = %+v, want nil", font)
	}
}

func TestCountPoints(t *testing.T) {
	contours := []glyf.Contour{
		make(glyf.Contour, 3),
		make(glyf.Contour, 4),
	}
	if n := countPoints(contours); n != 7 {
		t.Errorf("countPoints = %d, want 7", n)
	}
}

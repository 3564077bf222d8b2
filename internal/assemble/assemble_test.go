package assemble

import (
	"bytes"
	"testing"

	"github.com/uberstorm/hebrewfontmaker/internal/glyph"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/table"
)

func testOutline(t *testing.T) *glyph.Outline {
	t.Helper()
	o, err := glyph.Rect(50, 0, 450, 700, 600, 50)
	if err != nil {
		t.Fatalf("glyph.Rect: %v", err)
	}
	return o
}

func TestAssembleRequiresFamilyName(t *testing.T) {
	_, err := Assemble(map[rune]*glyph.Outline{'א': testOutline(t)}, Metadata{}, false)
	if err == nil {
		t.Fatal("Assemble with empty FamilyName should fail")
	}
}

func TestAssembleProducesReadableTrueTypeTables(t *testing.T) {
	outlines := map[rune]*glyph.Outline{
		'א': testOutline(t),
		'ב': testOutline(t),
	}
	data, err := Assemble(outlines, Metadata{FamilyName: "Test Hand"}, false)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	header, err := table.ReadHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if header.ScalerType != table.ScalerTypeTrueType {
		t.Errorf("ScalerType = %#x, want TrueType", header.ScalerType)
	}
	for _, name := range []string{"head", "hhea", "maxp", "OS/2", "hmtx", "cmap", "loca", "glyf", "name", "post"} {
		if _, ok := header.Toc[name]; !ok {
			t.Errorf("missing table %q", name)
		}
	}
}

func TestAssembleSkipsFallbackWhenUnavailable(t *testing.T) {
	outlines := map[rune]*glyph.Outline{'א': testOutline(t)}
	// No system fallback font exists in the test environment, so useFallback
	// should be a silent no-op rather than an error.
	_, err := Assemble(outlines, Metadata{FamilyName: "Solo"}, true)
	if err != nil {
		t.Fatalf("Assemble with useFallback=true and no system font: %v", err)
	}
}

func TestBuildNameTableFullNameHasRegularSuffix(t *testing.T) {
	tbl := buildNameTable(Metadata{FamilyName: "My Hand"})
	if tbl.FullName != "My Hand Regular" {
		t.Errorf("FullName = %q, want %q", tbl.FullName, "My Hand Regular")
	}
}

func TestStripPostScriptName(t *testing.T) {
	cases := map[string]string{
		"My Hand":      "MyHand",
		"Hand-Written": "HandWritten",
		"Plain":        "Plain",
	}
	for in, want := range cases {
		if got := stripPostScriptName(in); got != want {
			t.Errorf("stripPostScriptName(%q) = %q, want %q", in, got, want)
		}
	}
}

// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package glyf

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
)

func triangle() []Contour {
	return []Contour{
		{
			{X: 0, Y: 0, OnCurve: true},
			{X: 500, Y: 0, OnCurve: true},
			{X: 250, Y: 500, OnCurve: true},
		},
	}
}

func TestBuildSimpleOutlineRoundTrip(t *testing.T) {
	want := triangle()
	g, err := BuildSimple(want, nil)
	if err != nil {
		t.Fatalf("BuildSimple: %v", err)
	}

	info, err := g.Outline()
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if diff := cmp.Diff(want, info.Contours); diff != "" {
		t.Errorf("contours differ (-want +got):\n%s", diff)
	}

	wantBBox := funit.Rect{LLx: 0, LLy: 0, URx: 500, URy: 500}
	if g.Bounds() != wantBBox {
		t.Errorf("Bounds() = %+v, want %+v", g.Bounds(), wantBBox)
	}
}

func TestBuildSimpleEmptyContoursIsSpaceGlyph(t *testing.T) {
	g, err := BuildSimple(nil, nil)
	if err != nil {
		t.Fatalf("BuildSimple: %v", err)
	}

	info, err := g.Outline()
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if len(info.Contours) != 0 {
		t.Errorf("Contours = %v, want none", info.Contours)
	}
}

func TestNilGlyphOutlineIsEmpty(t *testing.T) {
	var g *Glyph
	info, err := g.Outline()
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if info == nil || len(info.Contours) != 0 {
		t.Errorf("Outline() = %+v, want empty GlyphInfo", info)
	}
}

func TestCompositeGlyphRejected(t *testing.T) {
	g := &Glyph{numCont: -1}
	_, err := g.Outline()
	if _, ok := err.(*funit.NotSupportedError); !ok {
		t.Fatalf("Outline() err = %v, want *funit.NotSupportedError", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	gg := Glyphs{}
	for _, contours := range [][]Contour{triangle(), nil} {
		g, err := BuildSimple(contours, nil)
		if err != nil {
			t.Fatalf("BuildSimple: %v", err)
		}
		gg = append(gg, g)
	}

	enc, err := gg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != len(gg) {
		t.Fatalf("Decode returned %d glyphs, want %d", len(decoded), len(gg))
	}

	for i, g := range gg {
		want, err := g.Outline()
		if err != nil {
			t.Fatalf("Outline(gg[%d]): %v", i, err)
		}
		got, err := decoded[i].Outline()
		if err != nil {
			t.Fatalf("Outline(decoded[%d]): %v", i, err)
		}
		if diff := cmp.Diff(want.Contours, got.Contours); diff != "" {
			t.Errorf("glyph %d contours differ (-want +got):\n%s", i, diff)
		}
	}
}

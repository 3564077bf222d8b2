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

package hmtx

import (
	"reflect"
	"testing"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
)

func TestRoundtrip(t *testing.T) {
	i1 := &Info{
		Width: []uint16{100, 200, 300, 300},
		GlyphExtent: []funit.Rect{
			{LLx: 10, LLy: 0, URx: 90, URy: 100},
			{LLx: 20, LLy: 0, URx: 200, URy: 100},
			{LLx: 30, LLy: 0, URx: 300, URy: 100},
			{LLx: 40, LLy: 0, URx: 300, URy: 100},
		},
		Ascent:  100,
		Descent: -100,
		LineGap: 120,
	}
	hhea, hmtx := i1.Encode()
	i2, err := Decode(hhea, hmtx)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(i1.Width, i2.Width) {
		t.Errorf("widths differ: %d vs %d", i1.Width, i2.Width)
	}
	if i1.Ascent != i2.Ascent {
		t.Errorf("ascent differs: %d vs %d", i1.Ascent, i2.Ascent)
	}
	if i1.Descent != i2.Descent {
		t.Errorf("descent differs: %d vs %d", i1.Descent, i2.Descent)
	}
	if i1.LineGap != i2.LineGap {
		t.Errorf("line gap differs: %d vs %d", i1.LineGap, i2.LineGap)
	}
}

func TestLengths(t *testing.T) {
	info := &Info{
		Width: []uint16{100, 200, 300, 300, 300},
		GlyphExtent: []funit.Rect{
			{LLx: 0, LLy: 0, URx: 100, URy: 100},
			{LLx: 10, LLy: 0, URx: 100, URy: 100},
			{LLx: 20, LLy: 0, URx: 100, URy: 100},
			{LLx: 30, LLy: 0, URx: 100, URy: 100},
			{LLx: 40, LLy: 0, URx: 100, URy: 100},
		},
	}
	hhea, hmtx := info.Encode()

	if len(hhea) != hheaLength {
		t.Errorf("expected %d, got %d", hheaLength, len(hhea))
	}

	numGlyphs := len(info.Width)
	numWidths := 3
	hmtxLength := 4*numWidths + 2*(numGlyphs-numWidths)
	if len(hmtx) != hmtxLength {
		t.Errorf("expected %d, got %d", hmtxLength, len(hmtx))
	}
}

func TestEncodeWritesVerticalCaret(t *testing.T) {
	info := &Info{Width: []uint16{100}, GlyphExtent: []funit.Rect{{URx: 100, URy: 100}}}
	hhea, _ := info.Encode()
	rise := int16(hhea[18])<<8 | int16(hhea[19])
	run := int16(hhea[20])<<8 | int16(hhea[21])
	if rise != 1 || run != 0 {
		t.Errorf("caret slope = %d/%d, want vertical 1/0", rise, run)
	}
}

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

// Package glyf implements reading and writing the "glyf" and "loca" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/glyf
// https://docs.microsoft.com/en-us/typography/opentype/spec/loca
package glyf

import "github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"

// Glyphs contains the information from a "glyf" table.
type Glyphs []*Glyph

type Encoded struct {
	GlyfData   []byte
	LocaData   []byte
	LocaFormat int16
}

// Decode converts the data from the "glyf" and "loca" tables into a slice of
// Glyphs.  The value for locaFormat is specified in the indexToLocFormat entry
// in the 'head' table.
func Decode(enc *Encoded) (Glyphs, error) {
	offs, err := decodeLoca(enc)
	if err != nil {
		return nil, err
	}

	numGlyphs := len(offs) - 1

	gg := make([]*Glyph, numGlyphs)
	for i := range gg {
		data := enc.GlyfData[offs[i]:offs[i+1]]
		g, err := decodeGlyph(data)
		if err != nil {
			return nil, err
		}
		gg[i] = g
	}

	return gg, nil
}

// Encode encodes the Glyphs into a "glyf" and "loca" table.
func (gg Glyphs) Encode() (*Encoded, error) {
	n := len(gg)

	bodies := make([][]byte, n)
	offs := make([]int, n+1)
	offs[0] = 0
	for i, g := range gg {
		body := g.encode()
		bodies[i] = body
		offs[i+1] = offs[i] + len(body)
	}
	locaData, locaFormat := encodeLoca(offs)

	glyfData := make([]byte, 0, offs[n])
	for _, body := range bodies {
		glyfData = append(glyfData, body...)
	}

	enc := &Encoded{
		GlyfData:   glyfData,
		LocaData:   locaData,
		LocaFormat: locaFormat,
	}

	return enc, nil
}

// NewSimple builds a Glyph from already-encoded simple-glyph outline
// data (flags, coordinate deltas and instructions, as produced by
// SimpleGlyph.Encode), its contour count and bounding box.
func NewSimple(numContours int, bbox funit.Rect, body []byte) *Glyph {
	return &Glyph{
		numCont: int16(numContours),
		xMin:    int16(bbox.LLx),
		yMin:    int16(bbox.LLy),
		xMax:    int16(bbox.URx),
		yMax:    int16(bbox.URy),
		tail:    body,
	}
}

// BuildSimple encodes contours into a Glyph, computing its bounding box
// from the contour points. An empty contour list produces a Glyph with
// zero contours and no outline, suitable for the "space" glyph.
func BuildSimple(contours []Contour, instructions []byte) (*Glyph, error) {
	sg, err := Encode(contours, instructions)
	if err != nil {
		return nil, err
	}

	var bbox funit.Rect
	first := true
	for _, c := range contours {
		for _, p := range c {
			if first {
				bbox = funit.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
				first = false
				continue
			}
			bbox.LLx = min(bbox.LLx, p.X)
			bbox.LLy = min(bbox.LLy, p.Y)
			bbox.URx = max(bbox.URx, p.X)
			bbox.URy = max(bbox.URy, p.Y)
		}
	}

	return &Glyph{
		numCont: sg.NumContours,
		xMin:    int16(bbox.LLx),
		yMin:    int16(bbox.LLy),
		xMax:    int16(bbox.URx),
		yMax:    int16(bbox.URy),
		tail:    sg.tail,
	}, nil
}

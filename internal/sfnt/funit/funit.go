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

// Package funit holds the small value types shared by the sfnt table
// codecs: font design units, glyph indices and the error kinds raised
// while decoding or encoding a table.
package funit

// Int16 is a 16-bit integer in font design units.
type Int16 int16

// AsFloat returns x*scale as a float64.
func (x Int16) AsFloat(scale float64) float64 {
	return float64(x) * scale
}

// Rect represents a rectangle in font design units.
type Rect struct {
	LLx, LLy, URx, URy Int16
}

// IsZero is true if the glyph leaves no marks on the page.
func (rect Rect) IsZero() bool {
	return rect.LLx == 0 && rect.LLy == 0 && rect.URx == 0 && rect.URy == 0
}

// Extend enlarges the rectangle to also cover `other`.
func (rect *Rect) Extend(other Rect) {
	if other.IsZero() {
		return
	}
	if rect.IsZero() {
		*rect = other
		return
	}
	if other.LLx < rect.LLx {
		rect.LLx = other.LLx
	}
	if other.LLy < rect.LLy {
		rect.LLy = other.LLy
	}
	if other.URx > rect.URx {
		rect.URx = other.URx
	}
	if other.URy > rect.URy {
		rect.URy = other.URy
	}
}

// GlyphID is the index of a glyph in a font's glyph order.
type GlyphID uint16

// InvalidFontError indicates a problem with font data being decoded.
type InvalidFontError struct {
	SubSystem string
	Reason    string
}

func (err *InvalidFontError) Error() string {
	return err.SubSystem + ": " + err.Reason
}

// NotSupportedError indicates that font data uses a feature this
// package does not implement.
type NotSupportedError struct {
	SubSystem string
	Feature   string
}

func (err *NotSupportedError) Error() string {
	return err.SubSystem + ": " + err.Feature + " not supported"
}

// MissingTableError indicates that a required table is absent from a
// TrueType or OpenType font's table directory.
type MissingTableError struct {
	Name string
}

func (err *MissingTableError) Error() string {
	return "missing " + err.Name + " table in font"
}

// IsMissingTable reports whether err is a MissingTableError.
func IsMissingTable(err error) bool {
	_, missing := err.(*MissingTableError)
	return missing
}

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
	"fmt"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
)

func locaErr(reason string) error {
	return &funit.InvalidFontError{SubSystem: "sfnt/loca", Reason: reason}
}

// decodeLoca reads the glyph-offset table, validating that offsets are
// non-decreasing and never point past the end of the glyf table.
func decodeLoca(enc *Encoded) ([]int, error) {
	var entryWidth int
	var readEntry func(i int) int
	switch enc.LocaFormat {
	case 0:
		entryWidth = 2
		readEntry = func(i int) int {
			x := int(enc.LocaData[2*i])<<8 + int(enc.LocaData[2*i+1])
			return 2 * x
		}
	case 1:
		entryWidth = 4
		readEntry = func(i int) int {
			return int(enc.LocaData[4*i])<<24 + int(enc.LocaData[4*i+1])<<16 +
				int(enc.LocaData[4*i+2])<<8 + int(enc.LocaData[4*i+3])
		}
	default:
		return nil, &funit.NotSupportedError{
			SubSystem: "sfnt/loca",
			Feature:   fmt.Sprintf("loca table format %d", enc.LocaFormat),
		}
	}

	n := len(enc.LocaData)
	if n < 2*entryWidth || n%entryWidth != 0 {
		return nil, locaErr("invalid table length")
	}

	offs := make([]int, n/entryWidth)
	prev := 0
	for i := range offs {
		pos := readEntry(i)
		if pos < prev || pos > len(enc.GlyfData) {
			return nil, locaErr(fmt.Sprintf("invalid offset %d", pos))
		}
		offs[i] = pos
		prev = pos
	}
	return offs, nil
}

func encodeLoca(offs []int) ([]byte, int16) {
	var locaData []byte
	var locaFormat int16
	if offs[len(offs)-1] <= 0xffff {
		locaFormat = 0
		locaData = make([]byte, 2*len(offs))
		for i, off := range offs {
			x := off / 2
			locaData[2*i] = byte(x >> 8)
			locaData[2*i+1] = byte(x)
		}
	} else {
		locaFormat = 1
		locaData = make([]byte, 4*len(offs))
		for i, off := range offs {
			locaData[4*i] = byte(off >> 24)
			locaData[4*i+1] = byte(off >> 16)
			locaData[4*i+2] = byte(off >> 8)
			locaData[4*i+3] = byte(off)
		}
	}
	return locaData, locaFormat
}

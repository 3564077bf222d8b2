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

package table

import (
	"errors"
	"io"
)

// MaxpInfo holds the information needed for a TrueType (version 1.0)
// "maxp" table. The per-glyph maxima must be computed by walking every
// glyph's outline before Encode is called.
type MaxpInfo struct {
	NumGlyphs          int
	MaxPoints          uint16
	MaxContours        uint16
	MaxCompositePoints uint16
	MaxCompositeConts  uint16
	MaxZones           uint16
	MaxTwilightPoints  uint16
	MaxStorage         uint16
	MaxFunctionDefs    uint16
	MaxInstructionDefs uint16
	MaxStackElements   uint16
	MaxSizeOfInstr     uint16
	MaxComponentElem   uint16
	MaxComponentDepth  uint16
}

// ReadMaxp reads the number of Glyphs from the "maxp" table.
// All other information is ignored.
func ReadMaxp(r io.Reader) (*MaxpInfo, error) {
	var buf [6]byte
	_, err := io.ReadFull(r, buf[:])
	if err != nil {
		return nil, err
	}

	version := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	if version != 0x00005000 && version != 0x00010000 {
		return nil, errors.New("sfnt/maxp: unknown version")
	}

	numGlyphs := int(buf[4])<<8 | int(buf[5])
	if numGlyphs == 0 {
		return nil, errors.New("sfnt/maxp: numGlyphs is zero")
	}

	return &MaxpInfo{NumGlyphs: numGlyphs}, nil
}

// Encode encodes a version 1.0 "maxp" table, as required for fonts with
// TrueType ("glyf") outlines.
func (info *MaxpInfo) Encode() ([]byte, error) {
	numGlyphs := info.NumGlyphs
	if numGlyphs < 1 || numGlyphs >= 1<<16 {
		return nil, errors.New("sfnt/maxp: numGlyphs out of range")
	}

	buf := make([]byte, 32)
	put32 := func(off int, v uint32) {
		buf[off] = byte(v >> 24)
		buf[off+1] = byte(v >> 16)
		buf[off+2] = byte(v >> 8)
		buf[off+3] = byte(v)
	}
	put16 := func(off int, v uint16) {
		buf[off] = byte(v >> 8)
		buf[off+1] = byte(v)
	}

	put32(0, 0x00010000)
	put16(4, uint16(numGlyphs))
	put16(6, info.MaxPoints)
	put16(8, info.MaxContours)
	put16(10, info.MaxCompositePoints)
	put16(12, info.MaxCompositeConts)
	put16(14, info.MaxZones)
	put16(16, info.MaxTwilightPoints)
	put16(18, info.MaxStorage)
	put16(20, info.MaxFunctionDefs)
	put16(22, info.MaxInstructionDefs)
	put16(24, info.MaxStackElements)
	put16(26, info.MaxSizeOfInstr)
	put16(28, info.MaxComponentElem)
	put16(30, info.MaxComponentDepth)

	return buf, nil
}

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

// Package post reads and writes the "post" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/post
//
// Every font this program produces is a glyf-outline TrueType font with no
// need to expose PostScript glyph names, so only the version-3.0 form (fixed
// header, no glyph name data) is supported.
package post

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const version3 = 0x00030000

// Info contains the subset of the "post" table this program cares about:
// the slant and underline metrics a rendering application reads back out of
// a generated font.
type Info struct {
	ItalicAngle        int32 // italic angle in degrees, 0 for upright hands
	UnderlinePosition  int16 // negative, relative to the baseline
	UnderlineThickness int16
	IsFixedPitch       bool
}

// Read decodes a version-3.0 "post" table from r.
func Read(r io.Reader) (*Info, error) {
	var enc postEnc
	if err := binary.Read(r, binary.BigEndian, &enc); err != nil {
		return nil, err
	}
	if enc.Version != version3 {
		return nil, fmt.Errorf("post: unsupported version %08x", enc.Version)
	}

	return &Info{
		ItalicAngle:        enc.ItalicAngle,
		UnderlinePosition:  enc.UnderlinePosition,
		UnderlineThickness: enc.UnderlineThickness,
		IsFixedPitch:       enc.IsFixedPitch != 0,
	}, nil
}

// Encode returns the binary representation of the "post" table.
func (info *Info) Encode() []byte {
	var isFixedPitch uint32
	if info.IsFixedPitch {
		isFixedPitch = 1
	}

	enc := postEnc{
		Version:            version3,
		ItalicAngle:        info.ItalicAngle,
		UnderlinePosition:  info.UnderlinePosition,
		UnderlineThickness: info.UnderlineThickness,
		IsFixedPitch:       isFixedPitch,
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, &enc)
	return buf.Bytes()
}

// postEnc is the fixed 32-byte version-3.0 header; the MemType fields are
// loader hints for Type 42 PostScript wrappers, which this pipeline never
// produces, so they are always left zero.
type postEnc struct {
	Version            uint32
	ItalicAngle        int32
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       uint32
	MinMemType42       uint32
	MaxMemType42       uint32
	MinMemType1        uint32
	MaxMemType1        uint32
}

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

// Package hmtx reads and writes the "hhea" and "hmtx" tables, which carry
// per-glyph advance widths and left side bearings for horizontal layout.
// https://docs.microsoft.com/en-us/typography/opentype/spec/hhea
//
// For a TrueType outline, xMin/xMax come from 'glyf'; the advance width
// and left side bearing always come from 'hmtx'. Right side bearing is
// derived as rsb = aw - (lsb + xMax - xMin) and is not stored directly.
package hmtx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
)

// Info contains the horizontal metrics this pipeline needs. Every glyph it
// writes is upright, so the caret is always vertical (slope rise=1, run=0,
// offset 0); nothing reads a caret slope back out of a font produced here,
// so Decode does not bother converting it to an angle.
type Info struct {
	Width       []uint16
	GlyphExtent []funit.Rect
	LSB         []int16

	Ascent  int16
	Descent int16 // negative
	LineGap int16
}

// Decode extracts information from the "hhea" and "hmtx" tables.
func Decode(hheaData, hmtxData []byte) (*Info, error) {
	r := bytes.NewReader(hheaData)
	hheaEnc := &binaryHhea{}
	err := binary.Read(r, binary.BigEndian, hheaEnc)
	if err != nil {
		return nil, err
	}
	if hheaEnc.Version != 0x00010000 {
		return nil, fmt.Errorf("unsupported hhea version %08x", hheaEnc.Version)
	}
	if hheaEnc.MetricDataFormat != 0 {
		return nil, fmt.Errorf("unsupported metric data format %d", hheaEnc.MetricDataFormat)
	}

	info := &Info{
		Ascent:  hheaEnc.Ascent,
		Descent: hheaEnc.Descent,
		LineGap: hheaEnc.LineGap,
	}

	numHorMetrics := int(hheaEnc.NumOfLongHorMetrics)
	prevWidth := uint16(0)
	var widths []uint16
	var lsbs []int16
	for i := 0; len(hmtxData) > 0; i++ {
		width := prevWidth
		if i < numHorMetrics {
			if len(hmtxData) < 2 {
				return nil, fmt.Errorf("hmtx too short")
			}
			width = uint16(hmtxData[0])<<8 | uint16(hmtxData[1])
			hmtxData = hmtxData[2:]
			prevWidth = width
		}
		widths = append(widths, width)

		if len(hmtxData) < 2 {
			return nil, fmt.Errorf("hmtx too short")
		}
		lsb := int16(hmtxData[0])<<8 | int16(hmtxData[1])
		hmtxData = hmtxData[2:]
		lsbs = append(lsbs, lsb)
	}
	if len(widths) < numHorMetrics {
		return nil, fmt.Errorf("hmtx too short")
	}
	info.Width = widths
	info.LSB = lsbs

	return info, nil
}

// Encode creates the "hhea" and "hmtx" tables.
func (info *Info) Encode() (hheaData []byte, hmtxData []byte) {
	numGlyphs := len(info.Width)
	if info.LSB != nil && len(info.LSB) != numGlyphs {
		panic("lsb length mismatch")
	}
	if info.GlyphExtent != nil && len(info.GlyphExtent) != numGlyphs {
		panic("GlyphExtent length mismatch")
	}

	numLong := numGlyphs
	for numLong > 1 && info.Width[numLong-1] == info.Width[numLong-2] {
		numLong--
	}

	hhea := &binaryHhea{
		Version: 0x00010000, // 1.0
		Ascent:  info.Ascent,
		Descent: info.Descent,
		LineGap: info.LineGap,

		CaretSlopeRise: 1, // vertical caret: nothing this program writes leans
		CaretSlopeRun:  0,

		NumOfLongHorMetrics: uint16(numLong),
	}

	for _, w := range info.Width {
		if w > hhea.AdvanceWidthMax {
			hhea.AdvanceWidthMax = w
		}
	}

	lsbs := info.LSB
	if lsbs == nil {
		lsbs = make([]int16, numGlyphs)
		for i := 0; i < numGlyphs; i++ {
			lsbs[i] = int16(info.GlyphExtent[i].LLx)
		}
	}
	first := true
	for i, lsb := range lsbs {
		if info.GlyphExtent != nil && info.GlyphExtent[i].IsZero() {
			continue
		}
		if first || lsb < hhea.MinLeftSideBearing {
			hhea.MinLeftSideBearing = lsb
			first = false
		}
	}

	if info.GlyphExtent != nil {
		first = true
		for i, bbox := range info.GlyphExtent {
			if bbox.IsZero() {
				continue
			}

			rsb := int16(info.Width[i]) - int16(bbox.URx)
			if first || rsb < hhea.MinRightSideBearing {
				hhea.MinRightSideBearing = rsb
			}
			if first || int16(bbox.URx) > hhea.XMaxExtent {
				hhea.XMaxExtent = int16(bbox.URx)
			}
			first = false
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, hheaLength))
	_ = binary.Write(buf, binary.BigEndian, hhea)
	hheaData = buf.Bytes()

	buf = bytes.NewBuffer(make([]byte, 0, 4*numLong+2*(numGlyphs-numLong)))
	for i := 0; i < numGlyphs; i++ {
		if i < numLong {
			buf.Write([]byte{
				byte(info.Width[i] >> 8), byte(info.Width[i]),
			})
		}
		buf.Write([]byte{
			byte(lsbs[i] >> 8), byte(lsbs[i]),
		})
	}
	hmtxData = buf.Bytes()

	return hheaData, hmtxData
}

const hheaLength = 36

type binaryHhea struct {
	Version             uint32
	Ascent              int16
	Descent             int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	_                   int16
	_                   int16
	_                   int16
	_                   int16
	MetricDataFormat    int16
	NumOfLongHorMetrics uint16
}

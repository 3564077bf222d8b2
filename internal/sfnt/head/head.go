// Package head supports reading and writing the HEAD table.
package head

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
)

const headLength = 54

// fontRevision is the fixed 16.16 FontRevision value every font this
// program writes carries; nothing downstream reads it back, and there is
// no notion of point releases for a one-shot handwriting capture.
const fontRevision = 1 << 16

// lowestRecPPEM is the smallest pixels-per-em size the generated glyphs
// are claimed to still render legibly at.
const lowestRecPPEM = 8

// Info represents the information in the 'head' table of an sfnt that
// this program's writer and fallback-metrics reader actually use. Every
// font produced here is upright, regular-weight, outline-only TrueType
// with a single build, so FontRevision, the style bits, and the
// Created/Modified timestamps are fixed constants rather than fields:
// there is nothing for a caller to set them to.
type Info struct {
	HasYBaseAt0    bool   // baseline for font at y=0
	HasXBaseAt0    bool   // left sidebearing point at x=0 (only for TrueType)
	UnitsPerEm     uint16 // font design units per em square
	FontBBox       funit.Rect
	HasLongOffsets bool // 'loca' table uses 32 bit offsets
}

// Read reads and  decodes the binary representation of the head table.
func Read(r io.Reader) (*Info, error) {
	enc := &binaryHead{}
	err := binary.Read(r, binary.BigEndian, enc)
	if err != nil {
		return nil, err
	}

	if enc.Version != 0x00010000 {
		return nil, fmt.Errorf("sfnt/head: unsupported table version %08x", enc.Version)
	}
	if enc.MagicNumber != 0x5F0F3CF5 {
		return nil, fmt.Errorf("sfnt/head: invalid magic number %08x", enc.MagicNumber)
	}

	info := &Info{}

	flags := enc.Flags
	info.HasYBaseAt0 = flags&(1<<0) != 0
	info.HasXBaseAt0 = flags&(1<<1) != 0

	info.UnitsPerEm = enc.UnitsPerEm

	info.FontBBox = funit.Rect{
		LLx: funit.Int16(enc.XMin),
		LLy: funit.Int16(enc.YMin),
		URx: funit.Int16(enc.XMax),
		URy: funit.Int16(enc.YMax),
	}

	info.HasLongOffsets = enc.IndexToLocFormat != 0

	return info, nil
}

// Encode returns the binary representation of the head table.
func (info *Info) Encode() (data []byte, err error) {
	var flags uint16
	if info.HasYBaseAt0 {
		flags |= 1 << 0
	}
	if info.HasXBaseAt0 {
		flags |= 1 << 1
	}
	flags |= 1 << 3
	flags |= 1 << 11
	flags |= 1 << 12
	flags |= 1 << 13

	enc := &binaryHead{
		Version:           0x00010000,
		FontRevision:      fontRevision,
		MagicNumber:       0x5F0F3CF5,
		Flags:             flags,
		UnitsPerEm:        info.UnitsPerEm,
		Created:           0,
		Modified:          0,
		XMin:              int16(info.FontBBox.LLx),
		YMin:              int16(info.FontBBox.LLy),
		XMax:              int16(info.FontBBox.URx),
		YMax:              int16(info.FontBBox.URy),
		MacStyle:          0, // every hand this program captures is upright and regular weight
		LowestRecPPEM:     lowestRecPPEM,
		FontDirectionHint: 2,
	}

	if info.HasLongOffsets {
		enc.IndexToLocFormat = 1
	}

	buf := bytes.NewBuffer(make([]byte, 0, headLength))
	_ = binary.Write(buf, binary.BigEndian, enc)
	return buf.Bytes(), nil
}

// PatchChecksum updates the checksum of the head table.
// The argument is the checksum of the entire font before patching.
func PatchChecksum(head []byte, checksum uint32) {
	binary.BigEndian.PutUint32(head[8:12], 0xB1B0AFBA-checksum)
}

// ClearChecksum zeroes the CheckSumAdjustment field, as required before
// the whole-font checksum used by PatchChecksum is computed.
func ClearChecksum(head []byte) {
	binary.BigEndian.PutUint32(head[8:12], 0)
}

type binaryHead struct {
	Version            uint32
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64

	XMin int16
	YMin int16
	XMax int16
	YMax int16

	MacStyle uint16

	LowestRecPPEM     uint16
	FontDirectionHint int16

	IndexToLocFormat int16
	GlyphDataFormat  int16
}

// zeroTime is the start of January 1904 in GMT/UTC, the epoch the 'head'
// table's Created/Modified fields count seconds from.
const zeroTime int64 = -2082844800

func encodeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix() - zeroTime
}

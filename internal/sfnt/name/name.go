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

package name

import (
	"sort"
	"unicode/utf16"
)

// Info holds the single-language string set written to the "name"
// table. Every generated font carries exactly one language, so unlike
// a font embedder serving many locales there is no Loc-keyed table
// selection here.
type Info struct {
	Strings *Table
}

const (
	platMac = 1
	platWin = 3

	macEncRoman = 0
	winEncBMP   = 1

	macLangEnglish = 0
	winLangEnUS    = 0x0409
)

// Encode converts the name strings into the binary "name" table,
// writing one Macintosh (Roman, mac-ASCII) record and one Windows
// (BMP, UTF-16BE) record per populated name ID.
func (info *Info) Encode() []byte {
	type recInfo struct {
		PlatformID uint16
		EncodingID uint16
		LanguageID uint16
		NameID     uint16
		offset     uint16
		length     uint16
	}
	var records []*recInfo

	b := newNameBuilder()

	t := info.Strings
	if t == nil {
		t = &Table{}
	}

	for _, nameID := range t.keys() {
		val := t.get(nameID)
		if val == "" {
			continue
		}

		offset, length := b.Add(macRomanEncode(val))
		records = append(records, &recInfo{
			PlatformID: platMac,
			EncodingID: macEncRoman,
			LanguageID: macLangEnglish,
			NameID:     uint16(nameID),
			offset:     offset,
			length:     length,
		})

		offset, length = b.Add(utf16Encode(val))
		records = append(records, &recInfo{
			PlatformID: platWin,
			EncodingID: winEncBMP,
			LanguageID: winLangEnUS,
			NameID:     uint16(nameID),
			offset:     offset,
			length:     length,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].PlatformID != records[j].PlatformID {
			return records[i].PlatformID < records[j].PlatformID
		}
		if records[i].EncodingID != records[j].EncodingID {
			return records[i].EncodingID < records[j].EncodingID
		}
		if records[i].LanguageID != records[j].LanguageID {
			return records[i].LanguageID < records[j].LanguageID
		}
		return records[i].NameID < records[j].NameID
	})

	numRec := len(records)
	startOfRecords := 6
	startOfStrings := startOfRecords + numRec*12
	res := make([]byte, startOfStrings+len(b.data))

	res[2] = byte(numRec >> 8)
	res[3] = byte(numRec)
	res[4] = byte(startOfStrings >> 8)
	res[5] = byte(startOfStrings)
	for i, rec := range records {
		base := startOfRecords + i*12
		res[base] = byte(rec.PlatformID >> 8)
		res[base+1] = byte(rec.PlatformID)
		res[base+2] = byte(rec.EncodingID >> 8)
		res[base+3] = byte(rec.EncodingID)
		res[base+4] = byte(rec.LanguageID >> 8)
		res[base+5] = byte(rec.LanguageID)
		res[base+6] = byte(rec.NameID >> 8)
		res[base+7] = byte(rec.NameID)
		res[base+8] = byte(rec.length >> 8)
		res[base+9] = byte(rec.length)
		res[base+10] = byte(rec.offset >> 8)
		res[base+11] = byte(rec.offset)
	}
	copy(res[startOfStrings:], b.data)

	return res
}

type nameBuilder struct {
	data []byte
	idx  map[string]uint16
}

func newNameBuilder() *nameBuilder {
	return &nameBuilder{
		idx: make(map[string]uint16),
	}
}

func (nb *nameBuilder) Add(b []byte) (offs, length uint16) {
	key := string(b)
	if idx, ok := nb.idx[key]; ok {
		return idx, uint16(len(b))
	}
	idx := uint16(len(nb.data))
	nb.idx[key] = idx
	nb.data = append(nb.data, b...)
	return idx, uint16(len(b))
}

func utf16Encode(s string) []byte {
	rr := utf16.Encode([]rune(s))
	res := make([]byte, len(rr)*2)
	for i, r := range rr {
		res[i*2] = byte(r >> 8)
		res[i*2+1] = byte(r)
	}
	return res
}

// macRomanEncode encodes a string for the Macintosh platform, falling
// back to '?' for any rune outside printable ASCII, so a Hebrew family
// name comes out as question marks in the Macintosh record; the Windows
// record keeps the full UTF-16 string.
func macRomanEncode(s string) []byte {
	res := make([]byte, 0, len(s))
	for _, r := range s {
		if r >= 0x20 && r < 0x7f {
			res = append(res, byte(r))
		} else {
			res = append(res, '?')
		}
	}
	return res
}

// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
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

package sfnt

import (
	"bytes"
	"encoding/binary"
	"math/bits"
	"sort"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
)

// CMapEntry describes the association between a character index and
// a glyph ID.
type CMapEntry struct {
	CID uint16
	GID funit.GlyphID
}

// MakeSubset converts a mapping from a full font to a subsetted font.
// It also returns the list of original glyphs to include in the subset.
func MakeSubset(origMapping []CMapEntry) ([]CMapEntry, []funit.GlyphID) {
	var newMapping []CMapEntry
	for _, m := range origMapping {
		if m.GID != 0 {
			newMapping = append(newMapping, m)
		}
	}
	sort.Slice(newMapping, func(i, j int) bool {
		return newMapping[i].CID < newMapping[j].CID
	})

	newToOrigGid := []funit.GlyphID{0}
	for i, m := range newMapping {
		newGid := funit.GlyphID(i + 1)
		newToOrigGid = append(newToOrigGid, m.GID)
		newMapping[i].GID = newGid
	}

	return newMapping, newToOrigGid
}

// cmapSubtable4Head is the fixed-size part of a format 4 subtable, starting
// at the Format field.
type cmapSubtable4Head struct {
	Format        uint16
	Length        uint16
	Language      uint16
	SegCountX2    uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// encodeFormat4Subtable builds the body of a format 4 cmap subtable
// (starting at the Format field) for the given CID->GID mapping. The
// slice `mapping` must be sorted in order of increasing CID values.
func encodeFormat4Subtable(mapping []CMapEntry) ([]byte, error) {
	var finalGID uint16
	if n := len(mapping); n > 0 && mapping[n-1].CID == 0xFFFF {
		finalGID = uint16(mapping[n-1].GID)
		mapping = mapping[:n-1]
	}

	var StartCode, EndCode, IDDelta, IDRangeOffsets, GlyphIDArray []uint16
	segments := findSegments(mapping)
	for i := 1; i < len(segments); i++ {
		start := segments[i-1]
		end := segments[i]

		cid := mapping[start].CID
		gid := uint16(mapping[start].GID)
		delta := gid - cid
		canUseDelta := true
		for i := start + 1; i < end; i++ {
			thisCid := mapping[i].CID
			thisGid := uint16(mapping[i].GID)
			thisDelta := thisGid - thisCid
			if thisDelta != delta {
				canUseDelta = false
				break
			}
		}

		StartCode = append(StartCode, cid)
		EndCode = append(EndCode, mapping[end-1].CID)
		if canUseDelta {
			IDDelta = append(IDDelta, delta)
			IDRangeOffsets = append(IDRangeOffsets, 0)
		} else {
			IDDelta = append(IDDelta, 0)
			offs := 2 * (len(segments) - i + // remaining entries in IDRangeOffsets
				1 + // the final segment
				len(GlyphIDArray)) // any previous entries in GlyphIDArray
			if offs > 65535 {
				panic("too many mappings for a format 4 subtable")
			}
			IDRangeOffsets = append(IDRangeOffsets, uint16(offs))
			pos := start
			for c := cid; c <= mapping[end-1].CID; c++ {
				var val uint16
				if mapping[pos].CID == c {
					val = uint16(mapping[pos].GID)
					pos++
				}
				GlyphIDArray = append(GlyphIDArray, val)
			}
		}
	}
	// add the required final segment
	StartCode = append(StartCode, 0xFFFF)
	EndCode = append(EndCode, 0xFFFF)
	IDDelta = append(IDDelta, finalGID-0xFFFF)
	IDRangeOffsets = append(IDRangeOffsets, 0)

	head := &cmapSubtable4Head{Format: 4}
	segCount := len(StartCode)
	head.Length = uint16(2 * (8 + 4*segCount + len(GlyphIDArray)))
	head.SegCountX2 = uint16(2 * segCount)
	sel := bits.Len(uint(segCount))
	head.SearchRange = 1 << sel
	head.EntrySelector = uint16(sel - 1)
	head.RangeShift = head.SegCountX2 - head.SearchRange

	EndCode = append(EndCode, 0) // add the ReservedPad field here

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.BigEndian, head); err != nil {
		return nil, err
	}
	for _, x := range [][]uint16{EndCode, StartCode, IDDelta, IDRangeOffsets, GlyphIDArray} {
		if err := binary.Write(buf, binary.BigEndian, x); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// MakeCMap writes a cmap with just a 1,0,4 subtable to map character indices
// to glyph indices in a subsetted font. The slice `mapping` must be sorted in
// order of increasing CID values.
func MakeCMap(mapping []CMapEntry) ([]byte, error) {
	if len(mapping) == 0 {
		return nil, nil
	}
	body, err := encodeFormat4Subtable(mapping)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	header := struct {
		Version        uint16
		NumTables      uint16
		PlatformID     uint16
		EncodingID     uint16
		SubtableOffset uint32
	}{
		NumTables:      1,
		PlatformID:     1,
		EncodingID:     0,
		SubtableOffset: 12,
	}
	if err := binary.Write(buf, binary.BigEndian, header); err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// MakeUnicodeCMap writes a "cmap" table exposing the same format 4 subtable
// body under both the Windows Unicode BMP (3,1) and the legacy Macintosh
// Roman (1,0) encoding records, which is what Windows GDI, macOS CoreText
// and FreeType each look for in turn. The slice `mapping` must be sorted in
// order of increasing CID values.
func MakeUnicodeCMap(mapping []CMapEntry) ([]byte, error) {
	if len(mapping) == 0 {
		return nil, nil
	}
	body, err := encodeFormat4Subtable(mapping)
	if err != nil {
		return nil, err
	}

	const numTables = 2
	subtableOffset := uint32(4 + numTables*8)

	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint16(0))        // version
	binary.Write(buf, binary.BigEndian, uint16(numTables)) // numTables

	records := []struct {
		PlatformID     uint16
		EncodingID     uint16
		SubtableOffset uint32
	}{
		{PlatformID: 3, EncodingID: 1, SubtableOffset: subtableOffset},
		{PlatformID: 1, EncodingID: 0, SubtableOffset: subtableOffset},
	}
	for _, rec := range records {
		binary.Write(buf, binary.BigEndian, rec)
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

func findSegments(mapping []CMapEntry) []int {
	// There are two different ways to encode GID values for a segment
	// of CID values:
	//
	//   - If GID-CID is constant over the range, IDDelta can be used.
	//     This requires 4 words of storage.
	//     The range can contain unmapped character indices.
	//   - Otherwise, GlyphIDArray can be used.  This requires
	//     4 + (EndCode - StartCode + 1) words of storage.
	//
	// Example:
	//     cid:  1  2  5 |  6  7  8  ->  4 + 7 = 11 words
	//     gid:  1  2  5 | 10 11  6
	//
	//     cid:  1  2  5  6  7  8  ->  12 words
	//     gid:  1  2  5 10 11  6
	//
	//     cid:  1  2  5 |  6  7 | 8  ->  4 + 4 + 5 = 13 words
	//     gid:  1  2  5 | 10 11 | 6

	cost := func(k, l int) int {
		delta := uint16(mapping[k].GID) - mapping[k].CID
		for i := k + 1; i < l; i++ {
			deltaI := uint16(mapping[i].GID) - mapping[i].CID
			if deltaI != delta {
				// we have to use GlyphIDArray
				return 4 + int(mapping[l-1].CID) - int(mapping[k].CID) + 1
			}
		}
		return 4 // we can use IDDelta
	}

	// Use Dijkstra's algorithm to find the best splits between segments.
	// https://en.wikipedia.org/wiki/Dijkstra%27s_algorithm
	//     vertices: 0, 1, ..., n, start at 0, end at n
	//     edges: (k, l) with 0 <= k < l <= n
	n := len(mapping)
	dist := make([]int, n)
	to := make([]int, n)
	for i := 0; i < n; i++ {
		dist[i] = cost(i, n)
		to[i] = n
	}

	pos := n
	for pos > 0 {
		bestNode, bestDist := 0, dist[0]
		for i := 1; i < pos; i++ {
			if dist[i] < bestDist {
				bestNode = i
				bestDist = dist[i]
			}
		}
		pos = bestNode

		for i := 0; i < pos; i++ {
			alt := bestDist + cost(i, pos)
			if alt < dist[i] {
				dist[i] = alt
				to[i] = pos
			}
		}
	}

	res := []int{0}
	pos = 0
	for pos < n {
		pos = to[pos]
		res = append(res, pos)
	}
	return res
}

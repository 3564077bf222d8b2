package sfnt

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/bits"
	"sort"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/head"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/table"
)

// WriteTables writes an sfnt file containing the given tables, ordered by
// the OpenType-recommended table order and with a freshly computed "head"
// checksum. Tables where the data is nil are not written; use a
// zero-length slice to write a table with no data.
func WriteTables(w io.Writer, scalerType uint32, tables map[string][]byte) (int64, error) {
	tableNames := make([]string, 0, len(tables))
	for name, data := range tables {
		if data != nil {
			tableNames = append(tableNames, name)
		}
	}
	numTables := len(tableNames)

	sort.Slice(tableNames, func(i, j int) bool {
		iPrio := ttTableOrder[tableNames[i]]
		jPrio := ttTableOrder[tableNames[j]]
		if iPrio != jPrio {
			return iPrio > jPrio
		}
		return tableNames[i] < tableNames[j]
	})

	entrySelector := bits.Len(uint(numTables)) - 1
	hdr := &offsets{
		ScalerType:    scalerType,
		NumTables:     uint16(numTables),
		SearchRange:   1 << (entrySelector + 4),
		EntrySelector: uint16(entrySelector),
		RangeShift:    uint16(16 * (numTables - 1<<entrySelector)),
	}

	if headData, ok := tables["head"]; ok {
		head.ClearChecksum(headData)
	}

	var totalSum uint32
	offset := uint32(12 + 16*numTables)
	records := make([]record, numTables)
	for i, name := range tableNames {
		body := tables[name]
		length := uint32(len(body))
		sum := checksum(body)

		records[i].Tag = table.MakeTag(name)
		records[i].CheckSum = sum
		records[i].Offset = offset
		records[i].Length = length

		totalSum += sum
		offset += 4 * ((length + 3) / 4)
	}
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Tag[:], records[j].Tag[:]) < 0
	})

	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, hdr)
	binary.Write(buf, binary.BigEndian, records)
	headerBytes := buf.Bytes()
	totalSum += checksum(headerBytes)

	if headData, ok := tables["head"]; ok {
		head.PatchChecksum(headData, totalSum)
	}

	// write the tables
	var totalSize int64
	n, err := w.Write(headerBytes)
	totalSize += int64(n)
	if err != nil {
		return totalSize, err
	}
	var pad [3]byte
	for _, name := range tableNames {
		body := tables[name]
		n, err := w.Write(body)
		totalSize += int64(n)
		if err != nil {
			return totalSize, err
		}
		if k := n % 4; k != 0 {
			l, err := w.Write(pad[:4-k])
			totalSize += int64(l)
			if err != nil {
				return totalSize, err
			}
		}
	}
	return totalSize, nil
}

// The offsets sub-table forms the first part of Header.
type offsets struct {
	ScalerType    uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// A record is part of the file Header.  It contains data about a single sfnt
// table.
type record struct {
	Tag      table.Tag
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// ttTableOrder ranks the ten tables assemble.Assemble ever produces for a
// glyf-outline font, following the OpenType-recommended table order.
// https://docs.microsoft.com/en-us/typography/opentype/spec/recom#optimized-table-ordering
var ttTableOrder = map[string]int{
	"head": 95,
	"hhea": 90,
	"maxp": 85,
	"OS/2": 80,
	"hmtx": 75,
	"cmap": 55,
	"loca": 35,
	"glyf": 30,
	"name": 20,
	"post": 15,
}

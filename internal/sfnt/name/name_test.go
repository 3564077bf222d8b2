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
	"bytes"
	"testing"
)

func TestEncodeHeaderAndCounts(t *testing.T) {
	info := &Info{Strings: &Table{Family: "Test Hand", Subfamily: "Regular"}}
	data := info.Encode()

	if len(data) < 6 {
		t.Fatalf("encoded name table too short: %d bytes", len(data))
	}
	if data[0] != 0 || data[1] != 0 {
		t.Errorf("format selector = %d, want 0", uint16(data[0])<<8|uint16(data[1]))
	}

	numRec := int(data[2])<<8 | int(data[3])
	wantRec := 4 // Family+Subfamily, one Mac and one Windows record each
	if numRec != wantRec {
		t.Errorf("record count = %d, want %d", numRec, wantRec)
	}

	startOfStrings := int(data[4])<<8 | int(data[5])
	if startOfStrings != 6+numRec*12 {
		t.Errorf("string storage offset = %d, want %d", startOfStrings, 6+numRec*12)
	}
}

func TestEncodeEmptyTableHasNoRecords(t *testing.T) {
	info := &Info{}
	data := info.Encode()
	numRec := int(data[2])<<8 | int(data[3])
	if numRec != 0 {
		t.Errorf("record count = %d, want 0 for an empty Table", numRec)
	}
}

func TestMacRomanEncodeReplacesNonASCII(t *testing.T) {
	got := macRomanEncode("Haאnd")
	if !bytes.Contains(got, []byte("Ha?nd")) {
		t.Errorf("macRomanEncode(%q) = %q, want the Hebrew letter replaced with '?'", "Haאnd", got)
	}
}

func TestNameBuilderDeduplicates(t *testing.T) {
	nb := newNameBuilder()
	o1, l1 := nb.Add([]byte("abc"))
	o2, _ := nb.Add([]byte("xyz"))
	o3, l3 := nb.Add([]byte("abc"))
	if o1 != o3 || l1 != l3 {
		t.Errorf("identical strings should share storage: (%d,%d) vs (%d,%d)", o1, l1, o3, l3)
	}
	if o1 == o2 {
		t.Errorf("distinct strings should not share an offset")
	}
}

func TestTableGetSetKeysRoundTrip(t *testing.T) {
	tbl := &Table{}
	tbl.set(1, "Family Name")
	tbl.set(6, "PSName")
	tbl.set(ID(200), "custom value")

	if tbl.get(1) != "Family Name" || tbl.get(6) != "PSName" {
		t.Fatalf("get did not return values set via set()")
	}
	if tbl.get(ID(200)) != "custom value" {
		t.Fatalf("out-of-range name IDs should round trip through Extra")
	}

	keys := tbl.keys()
	if len(keys) != 3 {
		t.Fatalf("keys() = %v, want 3 entries", keys)
	}
}

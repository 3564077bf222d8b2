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

package head

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
)

func TestHeadLength(t *testing.T) {
	info := &Info{}
	data, _ := info.Encode()
	if len(data) != headLength {
		t.Errorf("expected %d, got %d", headLength, len(data))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	info := &Info{
		HasYBaseAt0:    true,
		HasXBaseAt0:    true,
		UnitsPerEm:     1024,
		FontBBox:       funit.Rect{LLx: -50, LLy: -200, URx: 900, URy: 900},
		HasLongOffsets: true,
	}
	data, err := info.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(info, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestClearAndPatchChecksum(t *testing.T) {
	info := &Info{}
	data, _ := info.Encode()

	// simulate a stray checksum value left over from a previous encode
	data[8], data[9], data[10], data[11] = 1, 2, 3, 4
	ClearChecksum(data)
	for _, b := range data[8:12] {
		if b != 0 {
			t.Fatalf("ClearChecksum left non-zero bytes: %v", data[8:12])
		}
	}

	PatchChecksum(data, 0x12345678)
	want := 0xB1B0AFBA - uint32(0x12345678)
	got := uint32(data[8])<<24 | uint32(data[9])<<16 | uint32(data[10])<<8 | uint32(data[11])
	if got != want {
		t.Errorf("PatchChecksum wrote %#x, want %#x", got, want)
	}
}

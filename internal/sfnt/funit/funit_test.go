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

package funit

import "testing"

func TestRectExtend(t *testing.T) {
	var rect Rect
	rect.Extend(Rect{LLx: 10, LLy: 20, URx: 100, URy: 200})
	rect.Extend(Rect{LLx: -5, LLy: 30, URx: 50, URy: 300})

	want := Rect{LLx: -5, LLy: 20, URx: 100, URy: 300}
	if rect != want {
		t.Errorf("Extend result = %+v, want %+v", rect, want)
	}
}

func TestRectExtendIgnoresZero(t *testing.T) {
	rect := Rect{LLx: 1, LLy: 2, URx: 3, URy: 4}
	rect.Extend(Rect{})
	if rect != (Rect{LLx: 1, LLy: 2, URx: 3, URy: 4}) {
		t.Errorf("Extend with a zero rect should be a no-op, got %+v", rect)
	}
}

func TestRectIsZero(t *testing.T) {
	if !(Rect{}).IsZero() {
		t.Error("zero-value Rect should be IsZero")
	}
	if (Rect{URx: 1}).IsZero() {
		t.Error("non-zero Rect should not be IsZero")
	}
}

func TestErrorMessages(t *testing.T) {
	inv := &InvalidFontError{SubSystem: "sfnt/head", Reason: "bad magic"}
	if inv.Error() != "sfnt/head: bad magic" {
		t.Errorf("InvalidFontError.Error() = %q", inv.Error())
	}

	ns := &NotSupportedError{SubSystem: "sfnt/glyf", Feature: "composite glyphs"}
	if ns.Error() != "sfnt/glyf: composite glyphs not supported" {
		t.Errorf("NotSupportedError.Error() = %q", ns.Error())
	}

	mt := &MissingTableError{Name: "glyf"}
	if mt.Error() != "missing glyf table in font" {
		t.Errorf("MissingTableError.Error() = %q", mt.Error())
	}
	if !IsMissingTable(mt) {
		t.Error("IsMissingTable(mt) should be true for a *MissingTableError")
	}
	if IsMissingTable(ns) {
		t.Error("IsMissingTable(ns) should be false for a *NotSupportedError")
	}
}

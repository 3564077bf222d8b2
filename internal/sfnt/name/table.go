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
	"fmt"
	"sort"
	"strings"
)

// ID encodes the meaning of a given name string.
// https://learn.microsoft.com/en-us/typography/opentype/spec/name#name-ids
type ID uint16

const maxID ID = 13

// Table contains the name table data for a single language. This program
// only ever writes the identifying strings a generated font's metadata
// supplies; name IDs without a dedicated field (Trademark, DesignerURL,
// typographic-family overrides, WWS names, CID/variable-font names, ...)
// fall through to Extra, which nothing currently populates but which keeps
// get/set/keys total over the full ID range.
type Table struct {
	Copyright      string
	Family         string
	Subfamily      string
	Identifier     string
	FullName       string
	Version        string
	PostScriptName string
	Manufacturer   string
	Designer       string
	Description    string
	VendorURL      string
	License        string

	Extra map[ID]string
}

func (t *Table) String() string {
	b := &strings.Builder{}
	if t.Copyright != "" {
		fmt.Fprintf(b, "Copyright: %q\n", t.Copyright)
	}
	if t.Family != "" {
		fmt.Fprintf(b, "Family: %q\n", t.Family)
	}
	if t.Subfamily != "" {
		fmt.Fprintf(b, "Subfamily: %q\n", t.Subfamily)
	}
	if t.Identifier != "" {
		fmt.Fprintf(b, "Identifier: %q\n", t.Identifier)
	}
	if t.FullName != "" {
		fmt.Fprintf(b, "FullName: %q\n", t.FullName)
	}
	if t.Version != "" {
		fmt.Fprintf(b, "Version: %q\n", t.Version)
	}
	if t.PostScriptName != "" {
		fmt.Fprintf(b, "PostScriptName: %q\n", t.PostScriptName)
	}
	if t.Manufacturer != "" {
		fmt.Fprintf(b, "Manufacturer: %q\n", t.Manufacturer)
	}
	if t.Designer != "" {
		fmt.Fprintf(b, "Designer: %q\n", t.Designer)
	}
	if t.Description != "" {
		fmt.Fprintf(b, "Description: %q\n", t.Description)
	}
	if t.VendorURL != "" {
		fmt.Fprintf(b, "VendorURL: %s\n", t.VendorURL)
	}
	if t.License != "" {
		fmt.Fprintf(b, "License: %q\n", t.License)
	}

	if t.Extra != nil {
		var keys []ID
		for nameID := range t.Extra {
			keys = append(keys, nameID)
		}
		sort.Slice(keys, func(i, j int) bool {
			return keys[i] < keys[j]
		})
		for _, nameID := range keys {
			fmt.Fprintf(b, "%d: %q\n", nameID, t.Extra[nameID])
		}
	}

	return b.String()
}

func (t *Table) get(nameID ID) string {
	switch nameID {
	case 0:
		return t.Copyright
	case 1:
		return t.Family
	case 2:
		return t.Subfamily
	case 3:
		return t.Identifier
	case 4:
		return t.FullName
	case 5:
		return t.Version
	case 6:
		return t.PostScriptName
	case 8:
		return t.Manufacturer
	case 9:
		return t.Designer
	case 10:
		return t.Description
	case 11:
		return t.VendorURL
	case 13:
		return t.License
	default:
		if t.Extra != nil {
			return t.Extra[nameID]
		}
		return ""
	}
}

func (t *Table) set(nameID ID, val string) {
	switch nameID {
	case 0:
		t.Copyright = val
	case 1:
		t.Family = val
	case 2:
		t.Subfamily = val
	case 3:
		t.Identifier = val
	case 4:
		t.FullName = val
	case 5:
		t.Version = val
	case 6:
		t.PostScriptName = val
	case 8:
		t.Manufacturer = val
	case 9:
		t.Designer = val
	case 10:
		t.Description = val
	case 11:
		t.VendorURL = val
	case 13:
		t.License = val
	default:
		if t.Extra == nil {
			t.Extra = map[ID]string{}
		}
		t.Extra[nameID] = val
	}
}

func (t *Table) keys() []ID {
	var res []ID
	for nameID := ID(0); nameID <= maxID; nameID++ {
		val := t.get(nameID)
		if val != "" {
			res = append(res, nameID)
		}
	}
	if t.Extra != nil {
		for nameID, val := range t.Extra {
			if val != "" && nameID > maxID {
				res = append(res, nameID)
			}
		}
		sort.Slice(res, func(i, j int) bool {
			return res[i] < res[j]
		})
	}
	return res
}

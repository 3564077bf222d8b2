// Package assemble is the FontAssembler: it takes the collection of
// GlyphOutlines built for one session and serializes a conformant TTF byte
// stream, injecting the required .notdef/space glyphs and any fallback
// glyphs the system font supplies for characters the user never assigned.
package assemble

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/uberstorm/hebrewfontmaker/internal/fallback"
	"github.com/uberstorm/hebrewfontmaker/internal/glyph"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/glyf"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/head"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/hmtx"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/name"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/os2"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/post"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/table"
)

// Metadata is the font-wide naming and attribution data supplied at
// generation time; only FamilyName is required.
type Metadata struct {
	FamilyName  string `json:"family_name"`
	Author      string `json:"author"`
	Version     string `json:"version"`
	Description string `json:"description"`
	License     string `json:"license"`
	URL         string `json:"url"`
}

const (
	notdefAdvance = 500
	spaceAdvance  = 250
)

// Assemble builds the TTF byte stream for the given character->outline
// assignments. useFallback controls whether an available system font is
// probed for characters the caller did not assign; it is silently skipped
// when no system font is found.
func Assemble(outlines map[rune]*glyph.Outline, meta Metadata, useFallback bool) ([]byte, error) {
	if meta.FamilyName == "" {
		return nil, fmt.Errorf("assemble: family name is required")
	}

	notdef, err := glyph.Rect(50, 0, 450, 700, notdefAdvance, 50)
	if err != nil {
		return nil, err
	}
	space, err := glyph.Empty(spaceAdvance, 0)
	if err != nil {
		return nil, err
	}

	chars := make([]rune, 0, len(outlines))
	for c := range outlines {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	if useFallback {
		if fb, ferr := fallback.Load(); ferr == nil && fb != nil {
			for c, o := range fb.Outlines {
				if _, assigned := outlines[c]; assigned {
					continue
				}
				outlines[c] = o
				chars = append(chars, c)
			}
			sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
		}
	}

	type entry struct {
		c rune
		o *glyph.Outline
	}
	glyphOrder := make([]entry, 0, len(chars)+2)
	glyphOrder = append(glyphOrder, entry{c: 0, o: notdef})
	glyphOrder = append(glyphOrder, entry{c: ' ', o: space})
	for _, c := range chars {
		if c == ' ' {
			continue // space is always the unconditional glyph above
		}
		glyphOrder = append(glyphOrder, entry{c: c, o: outlines[c]})
	}

	glyphs := make(glyf.Glyphs, len(glyphOrder))
	widths := make([]uint16, len(glyphOrder))
	lsbs := make([]int16, len(glyphOrder))
	extents := make([]funit.Rect, len(glyphOrder))
	cmap := make([]sfnt.CMapEntry, 0, len(glyphOrder))

	var maxPoints, maxContours uint16
	firstChar, lastChar := rune(' '), rune(' ') // space is always mapped (GID 1)
	for i, e := range glyphOrder {
		glyphs[i] = e.o.Glyph
		widths[i] = e.o.Advance
		lsbs[i] = e.o.LSB
		extents[i] = e.o.Glyph.Bounds()
		if e.o.NumPoints > int(maxPoints) {
			maxPoints = uint16(e.o.NumPoints)
		}
		if e.o.NumContour > int(maxContours) {
			maxContours = uint16(e.o.NumContour)
		}
		if i >= 2 { // skip .notdef and space for the cmap range
			cmap = append(cmap, sfnt.CMapEntry{CID: uint16(e.c), GID: funit.GlyphID(i)})
			if firstChar == 0 || e.c < firstChar {
				firstChar = e.c
			}
			if e.c > lastChar {
				lastChar = e.c
			}
		}
	}
	cmap = append(cmap, sfnt.CMapEntry{CID: uint16(' '), GID: 1})
	sort.Slice(cmap, func(i, j int) bool { return cmap[i].CID < cmap[j].CID })

	glyfEnc, err := glyphs.Encode()
	if err != nil {
		return nil, err
	}

	hmtxInfo := &hmtx.Info{
		Width:       widths,
		GlyphExtent: extents,
		LSB:         lsbs,
		Ascent:      glyph.Ascender,
		Descent:     glyph.Descender,
		LineGap:     200,
	}
	hheaData, hmtxData := hmtxInfo.Encode()

	headInfo := &head.Info{
		UnitsPerEm:     glyph.UnitsPerEm,
		HasYBaseAt0:    true,
		HasXBaseAt0:    true,
		HasLongOffsets: glyfEnc.LocaFormat == 1,
		FontBBox:       wholeFontBBox(extents),
	}
	headData, err := headInfo.Encode()
	if err != nil {
		return nil, err
	}

	os2Info := &os2.Info{
		WeightClass: 400,
		WidthClass:  5,
		IsRegular:   true,
		Ascent:      glyph.Ascender,
		Descent:     glyph.Descender,
		LineGap:     200,
		WinAscent:   1000,
		WinDescent:  200,
		XHeight:     500,
		CapHeight:   700,
		Vendor:      "    ",
	}
	os2Data := os2Info.Encode(firstChar, lastChar)

	postData := (&post.Info{}).Encode()

	cmapData, err := sfnt.MakeUnicodeCMap(cmap)
	if err != nil {
		return nil, err
	}

	nameInfo := &name.Info{Strings: buildNameTable(meta)}
	nameData := nameInfo.Encode()

	maxpInfo := &table.MaxpInfo{
		NumGlyphs:   len(glyphOrder),
		MaxPoints:   maxPoints,
		MaxContours: maxContours,
		MaxZones:    1,
	}
	maxpData, err := maxpInfo.Encode()
	if err != nil {
		return nil, err
	}

	tables := map[string][]byte{
		"head": headData,
		"hhea": hheaData,
		"maxp": maxpData,
		"OS/2": os2Data,
		"hmtx": hmtxData,
		"cmap": cmapData,
		"loca": glyfEnc.LocaData,
		"glyf": glyfEnc.GlyfData,
		"name": nameData,
		"post": postData,
	}

	buf := &bytes.Buffer{}
	if _, err := sfnt.WriteTables(buf, table.ScalerTypeTrueType, tables); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func wholeFontBBox(extents []funit.Rect) funit.Rect {
	var bbox funit.Rect
	for _, e := range extents {
		if e.IsZero() {
			continue
		}
		bbox.Extend(e)
	}
	return bbox
}

func buildNameTable(meta Metadata) *name.Table {
	postscript := stripPostScriptName(meta.FamilyName)
	t := &name.Table{
		Family:         meta.FamilyName,
		Subfamily:      "Regular",
		Identifier:     meta.FamilyName + "-Regular",
		FullName:       meta.FamilyName + " Regular",
		PostScriptName: postscript,
		Version:        meta.Version,
		Description:    meta.Description,
		License:        meta.License,
		VendorURL:      meta.URL,
		Manufacturer:   meta.Author,
		Designer:       meta.Author,
	}
	return t
}

func stripPostScriptName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == '-' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

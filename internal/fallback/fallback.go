// Package fallback reads outlines for a fixed set of common characters
// out of whatever system TrueType font is available, rescales them into
// the generated font's design grid, and hands them back as ready-to-embed
// glyph outlines for every character the user never hand-drew.
package fallback

import (
	"bytes"
	"os"

	"github.com/uberstorm/hebrewfontmaker/internal/glyph"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/funit"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/glyf"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/head"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/hmtx"
	"github.com/uberstorm/hebrewfontmaker/internal/sfnt/table"
)

// Charset is the fixed set of non-Hebrew characters a generated font
// injects from a system fallback font when the user has not hand-drawn
// them: digits, ASCII punctuation/brackets/math, and a handful of Hebrew
// punctuation marks that this program has no drawing workflow for.
var Charset = buildCharset()

func buildCharset() []rune {
	var cs []rune
	for r := '0'; r <= '9'; r++ {
		cs = append(cs, r)
	}
	for _, r := range "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" {
		cs = append(cs, r)
	}
	cs = append(cs, '\u05BE', '\u05C0', '\u05C3', '\u05F3', '\u05F4')
	return cs
}

// SearchPaths lists candidate system font files to probe, in priority
// order. Windows/macOS names come first since this service's browser UI
// targets a desktop user; the DejaVu/Liberation paths follow for a typical
// fontconfig-managed Linux deployment.
var SearchPaths = []string{
	`C:\Windows\Fonts\arial.ttf`,
	`C:\Windows\Fonts\segoeui.ttf`,
	`C:\Windows\Fonts\tahoma.ttf`,
	`C:\Windows\Fonts\calibri.ttf`,
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/LiberationSans-Regular.ttf",
}

// Font holds the outlines, already rescaled to unitsPerEm 1024, read from
// whichever candidate system font was found.
type Font struct {
	Outlines map[rune]*glyph.Outline
}

// Load probes SearchPaths in order and returns the outlines of every rune
// in Charset found in the first font that opens successfully. It returns
// (nil, nil) rather than an error when no system font is available,
// so the caller can proceed without fallback glyphs.
func Load() (*Font, error) {
	for _, path := range SearchPaths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		font, loadErr := loadFrom(f)
		f.Close()
		if loadErr == nil {
			return font, nil
		}
	}
	return nil, nil
}

func loadFrom(r *os.File) (*Font, error) {
	hdr, err := table.ReadHeader(r)
	if err != nil {
		return nil, err
	}

	headData, err := hdr.ReadTableBytes(r, "head")
	if err != nil {
		return nil, err
	}
	headInfo, err := head.Read(bytes.NewReader(headData))
	if err != nil {
		return nil, err
	}
	upem := headInfo.UnitsPerEm
	if upem == 0 {
		upem = 1000
	}

	hheaData, err := hdr.ReadTableBytes(r, "hhea")
	if err != nil {
		return nil, err
	}
	hmtxData, err := hdr.ReadTableBytes(r, "hmtx")
	if err != nil {
		return nil, err
	}
	metrics, err := hmtx.Decode(hheaData, hmtxData)
	if err != nil {
		return nil, err
	}

	cmapRec, err := hdr.Find("cmap")
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(int64(cmapRec.Offset), 0); err != nil {
		return nil, err
	}
	cmapTable, err := table.ReadCMapTable(r)
	if err != nil {
		return nil, err
	}
	enc := cmapTable.Find(3, 1)
	if enc == nil {
		enc = cmapTable.Find(0, 3)
	}
	if enc == nil {
		enc = cmapTable.Find(1, 0)
	}
	if enc == nil {
		return nil, &funit.NotSupportedError{SubSystem: "fallback", Feature: "no usable cmap subtable"}
	}
	if _, err := r.Seek(int64(cmapRec.Offset), 0); err != nil {
		return nil, err
	}
	runeToGlyph, err := enc.LoadCMap(r, func(i int) rune { return rune(i) })
	if err != nil {
		return nil, err
	}

	glyfData, err := hdr.ReadTableBytes(r, "glyf")
	if err != nil {
		return nil, err
	}
	locaData, err := hdr.ReadTableBytes(r, "loca")
	if err != nil {
		return nil, err
	}
	glyphs, err := glyf.Decode(&glyf.Encoded{
		GlyfData:   glyfData,
		LocaData:   locaData,
		LocaFormat: boolToFormat(headInfo.HasLongOffsets),
	})
	if err != nil {
		return nil, err
	}

	scale := float64(1024) / float64(upem)
	out := &Font{Outlines: map[rune]*glyph.Outline{}}

	for _, c := range Charset {
		gid, ok := runeToGlyph[c]
		if !ok || int(gid) >= len(glyphs) {
			continue
		}
		src := glyphs[gid]
		info, err := src.Outline()
		if err != nil {
			continue // composite glyph or undecodable outline, skip silently
		}

		var contours []glyf.Contour
		for _, rawContour := range info.Contours {
			nc := make(glyf.Contour, len(rawContour))
			for i, p := range rawContour {
				nc[i] = glyf.Point{
					X:       funit.Int16(round(float64(p.X) * scale)),
					Y:       funit.Int16(round(float64(p.Y) * scale)),
					OnCurve: p.OnCurve,
				}
			}
			contours = append(contours, nc)
		}

		g, err := glyf.BuildSimple(contours, nil)
		if err != nil {
			continue
		}

		width := uint16(0)
		lsb := int16(0)
		if int(gid) < len(metrics.Width) {
			width = uint16(round(float64(metrics.Width[gid]) * scale))
		}
		if int(gid) < len(metrics.LSB) {
			lsb = int16(round(float64(metrics.LSB[gid]) * scale))
		}

		out.Outlines[c] = &glyph.Outline{
			Glyph:      g,
			Advance:    width,
			LSB:        lsb,
			NumPoints:  countPoints(contours),
			NumContour: len(contours),
		}
	}

	if len(out.Outlines) == 0 {
		return nil, &funit.NotSupportedError{SubSystem: "fallback", Feature: "no fallback characters decoded"}
	}
	return out, nil
}

func boolToFormat(longOffsets bool) int16 {
	if longOffsets {
		return 1
	}
	return 0
}

func countPoints(contours []glyf.Contour) int {
	n := 0
	for _, c := range contours {
		n += len(c)
	}
	return n
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

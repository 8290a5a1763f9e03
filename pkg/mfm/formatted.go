// file: pkg/mfm/formatted.go

package mfm

import (
	"log/slog"

	"github.com/ha1tch/mfmtrack/pkg/bitstream"
)

// FormattedTrack is a track with known expected geometry. Raw observations
// decoded from flux accumulate in their own lists and are reconciled against
// the expected sectors, so a readback can confirm or repair the expectation
// without disturbing its layout.
type FormattedTrack struct {
	Track
	RawIAMs    []*IAM
	RawSectors []*Sector
	ImgBPS     int // fixed per-sector image stride; 0 = natural size
}

// NewFormattedTrack creates an empty formatted track for cyl/head.
func NewFormattedTrack(cyl, head int) *FormattedTrack {
	return &FormattedTrack{Track: Track{Cyl: cyl, Head: head}}
}

// DecodeBits decodes a capture into the raw observation lists, then
// reconciles every cleanly identified raw sector against the expected ones.
// A match validates the expected ID field; a clean raw data field repairs a
// corrupt expected one. Raw sectors matching no expected sector are reported
// and ignored.
func (ft *FormattedTrack) DecodeBits(bits *bitstream.Bits, revs []int) {
	areas, hasIAM := decodeAreas(bits)
	if hasIAM {
		ft.HasIAM = true
	}
	normalizeAreas(areas, revs)
	ft.RawIAMs, ft.RawSectors = mergeAreas(ft.RawIAMs, ft.RawSectors, areas)

	type chrn struct{ c, h, r, n uint8 }
	mismatches := make(map[chrn]bool)
	for _, r := range ft.RawSectors {
		if r.IDAM.CRC != 0 {
			continue
		}
		matched := false
		for _, s := range ft.Sectors {
			if s.IDAM.C == r.IDAM.C && s.IDAM.H == r.IDAM.H &&
				s.IDAM.R == r.IDAM.R && s.IDAM.N == r.IDAM.N {
				s.IDAM.CRC = 0
				matched = true
				if r.DAM.CRC == 0 && s.DAM.CRC != 0 {
					s.DAM.CRC = 0
					s.CRC = 0
					s.DAM.Data = r.DAM.Data
				}
			}
		}
		if !matched {
			mismatches[chrn{r.IDAM.C, r.IDAM.H, r.IDAM.R, r.IDAM.N}] = true
		}
	}
	for m := range mismatches {
		slog.Warn("ignoring unexpected sector",
			"cyl", ft.Cyl, "head", ft.Head,
			"c", m.c, "h", m.h, "r", m.r, "n", m.n)
	}
}

// VerifyBits decodes a fresh capture of a just-written track into a
// throw-away copy of the expectation and reports whether every sector came
// back intact and structurally identical. Expected CRCs must have been
// cleared beforehand (SetImage does this), so a successful readback compares
// equal despite the write recomputing them.
func (ft *FormattedTrack) VerifyBits(bits *bitstream.Bits, revs []int) bool {
	rb := NewFormattedTrack(ft.Cyl, ft.Head)
	rb.Clock = ft.Clock
	rb.TimePerRev = ft.TimePerRev
	for _, a := range ft.IAMs {
		c := *a
		rb.IAMs = append(rb.IAMs, &c)
	}
	for _, s := range ft.Sectors {
		idam, dam := *s.IDAM, *s.DAM
		idam.CRC, dam.CRC = CRCBad, CRCBad
		rb.Sectors = append(rb.Sectors, NewSector(&idam, &dam))
	}
	rb.DecodeBits(bits, revs)
	if rb.NrMissing() != 0 {
		return false
	}
	if len(ft.Sectors) != len(rb.Sectors) {
		return false
	}
	for i, s := range ft.Sectors {
		if !s.Equal(rb.Sectors[i]) {
			return false
		}
	}
	return true
}

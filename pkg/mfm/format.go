// file: pkg/mfm/format.go

package mfm

import (
	"bytes"

	"github.com/bits-and-blooms/bitset"
)

// Conventional gap sizes in bytes. Gap 3 defaults are upper bounds indexed
// by size code when the gap is computed from leftover track space.
const (
	defaultGap4A = 80 // post-index
	defaultGap1  = 50 // post-IAM
	defaultGap2  = 22 // post-ID-field
	edGap2       = 41 // post-ID-field at extra density
)

var gap3Max = [8]int{32, 54, 84, 116, 255, 255, 255, 255}

var badSectorStamp = []byte("-=[BAD SECTOR]=-")

// FromConfig synthesizes a fully formatted track for cyl/head from a
// geometry: every gap, ID field and data field placed deterministically,
// with the data rate picked automatically when unspecified and payloads
// holding a placeholder fill until an image is loaded.
func FromConfig(cfg *Config, cyl, head int) *FormattedTrack {
	t := NewFormattedTrack(cyl, head)
	if cfg.ImgBPS != nil {
		t.ImgBPS = *cfg.ImgBPS
	}
	nsec := cfg.Secs

	gap1 := -1 // no IAM
	if cfg.IAM {
		gap1 = defaultGap1
		if cfg.Gap1 != nil {
			gap1 = *cfg.Gap1
		}
	}
	gap2 := defaultGap2
	if cfg.Gap2 != nil {
		gap2 = *cfg.Gap2
	}
	gap3 := 0
	if cfg.Gap3 != nil {
		gap3 = *cfg.Gap3
	}
	gap4a := defaultGap4A
	if cfg.Gap4A != nil {
		gap4a = *cfg.Gap4A
	}

	// Fixed per-track and per-sector overhead in source bytes.
	idxSz := gap4a
	if gap1 >= 0 {
		idxSz += gapPresync + 4 + gap1
	}
	idamSz := gapPresync + 8 + 2 + gap2
	damSzPre := gapPresync + 4
	damSzPost := 2 + gap3

	tracklen := idxSz + (idamSz+damSzPre+damSzPost)*nsec
	for i := 0; i < nsec; i++ {
		tracklen += 128 << cfg.secN(i)
	}
	tracklen *= cellsPerByte

	rate, rpm := cfg.Rate, cfg.RPM
	if rate == 0 {
		// Smallest standard tier whose track capacity fits: DD=1 HD=2 ED=3.
		i := 1
		for ; i < 3; i++ {
			maxlen := ((50000*300/rpm) << uint(i)) + 5000
			if tracklen < maxlen {
				break
			}
		}
		rate = 125 << uint(i) // DD=250, HD=500, ED=1000
	}

	if cfg.Gap2 == nil && rate >= 1000 {
		// At ED rate the default gap 2 is 41 bytes.
		oldGap2 := gap2
		gap2 = edGap2
		idamSz += gap2 - oldGap2
		tracklen += cellsPerByte * nsec * (gap2 - oldGap2)
	}

	tracklenBC := rate * 400 * 300 / rpm

	if nsec != 0 && cfg.Gap3 == nil {
		space := tracklenBC - tracklen
		if space < 0 {
			space = 0
		}
		gap3 = space / (cellsPerByte * nsec)
		if limit := gap3Max[cfg.secN(0)]; gap3 > limit {
			gap3 = limit
		}
		damSzPost += gap3
		tracklen += cellsPerByte * nsec * gap3
	}

	if tracklen > tracklenBC {
		tracklenBC = tracklen
	}

	t.TimePerRev = 60 / float64(rpm)
	t.Clock = t.TimePerRev / float64(tracklenBC)

	// Logical sector map in rotational order: start at the skew offset, step
	// by the interleave, and slide past already-occupied slots.
	secMap := make([]int, nsec)
	occupied := bitset.New(uint(nsec))
	slot := 0
	if nsec != 0 {
		slot = (cyl*cfg.CSkew + head*cfg.HSkew) % nsec
	}
	for i := 0; i < nsec; i++ {
		for occupied.Test(uint(slot)) {
			slot = (slot + 1) % nsec
		}
		secMap[slot] = i
		occupied.Set(uint(slot))
		slot = (slot + cfg.Interleave) % nsec
	}

	pos := gap4a
	if gap1 >= 0 {
		pos += gapPresync
		t.IAMs = []*IAM{{Start: pos * cellsPerByte, End: (pos + 4) * cellsPerByte}}
		pos += 4 + gap1
	}

	id0 := cfg.ID
	h := head
	if cfg.H != nil {
		h = *cfg.H
	}
	for i := 0; i < nsec; i++ {
		sec := secMap[i]
		pos += gapPresync
		idam := &IDAM{
			Start: pos * cellsPerByte, End: (pos + 10) * cellsPerByte,
			CRC: CRCBad,
			C:   uint8(cyl), H: uint8(h), R: uint8(id0 + sec), N: uint8(cfg.secN(sec)),
		}
		pos += 10 + gap2 + gapPresync
		size := 128 << idam.N
		dam := &DAM{
			Start: pos * cellsPerByte, End: (pos + 4 + size + 2) * cellsPerByte,
			CRC:  CRCBad,
			Mark: MarkDAM,
			Data: bytes.Repeat(badSectorStamp, size/len(badSectorStamp)),
		}
		t.Sectors = append(t.Sectors, NewSector(idam, dam))
		pos += 4 + size + 2 + gap3
	}

	return t
}

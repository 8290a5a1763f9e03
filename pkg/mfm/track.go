// file: pkg/mfm/track.go

package mfm

import (
	"fmt"
	"math"
	"sort"

	"github.com/ha1tch/mfmtrack/pkg/bitstream"
)

const (
	// idamPairWindow is how far past an ID field's end a data sync may start
	// and still belong to that sector.
	idamPairWindow = 1000
	// areaMatchWindow is the tolerance within which two same-kind areas seen
	// on different revolutions are the same physical area.
	areaMatchWindow = 1000
)

// Track is a decoded or synthesized MFM track: its index marks and sectors
// ordered by bitcell offset from the index, plus the rotational timing.
// A Track is owned by a single caller; distinct tracks may be worked on
// concurrently without synchronization.
type Track struct {
	Cyl, Head  int
	IAMs       []*IAM
	Sectors    []*Sector
	TimePerRev float64 // seconds per revolution
	Clock      float64 // seconds per bitcell
	HasIAM     bool
}

// NewTrack creates an empty track for the given cylinder and head.
func NewTrack(cyl, head int) *Track {
	return &Track{Cyl: cyl, Head: head}
}

// NrMissing counts sectors whose ID or data field was never read cleanly.
func (t *Track) NrMissing() int {
	n := 0
	for _, s := range t.Sectors {
		if s.IDAM.CRC != 0 || s.DAM.CRC != 0 {
			n++
		}
	}
	return n
}

// SummaryString reports good/total sector counts.
func (t *Track) SummaryString() string {
	nsec, nbad := len(t.Sectors), t.NrMissing()
	return fmt.Sprintf("IBM MFM (%d/%d sectors)", nsec-nbad, nsec)
}

// DecodeBits scans a demodulated bit sequence, possibly spanning several
// revolutions whose bit lengths are given by revs, and merges every area it
// finds into the track. Calling it again with another capture of the same
// physical track refines the result: duplicates are dropped and a clean read
// of a sector replaces an earlier corrupt one.
func (t *Track) DecodeBits(bits *bitstream.Bits, revs []int) {
	areas, hasIAM := decodeAreas(bits)
	if hasIAM {
		t.HasIAM = true
	}
	normalizeAreas(areas, revs)
	t.IAMs, t.Sectors = mergeAreas(t.IAMs, t.Sectors, areas)
}

// decodeAreas finds every sync match in the bit sequence and extracts the
// areas behind it, with offsets still relative to the stream start. Matches
// without enough trailing bits are skipped; unrecognized mark bytes are
// ignored.
func decodeAreas(bits *bitstream.Bits) ([]area, bool) {
	var areas []area
	hasIAM := false

	markAt := func(offs int) Mark {
		cells := bits.Bytes(offs+3*cellsPerByte, offs+4*cellsPerByte)
		return Mark(Decode(cells)[0])
	}

	offsets, _ := bits.Search(iamSyncPattern, syncPatternBits)
	for _, offs := range offsets {
		if bits.Len() < offs+4*cellsPerByte {
			continue
		}
		if markAt(offs) == MarkIAM {
			areas = append(areas, &IAM{Start: offs, End: offs + 4*cellsPerByte})
			hasIAM = true
		}
	}

	var pending *IDAM
	offsets, _ = bits.Search(fieldSyncPattern, syncPatternBits)
	for _, offs := range offsets {
		if bits.Len() < offs+4*cellsPerByte {
			continue
		}
		switch mark := markAt(offs); mark {
		case MarkIDAM:
			s, e := offs, offs+10*cellsPerByte
			if bits.Len() < e {
				continue
			}
			b := Decode(bits.Bytes(s, e))
			if pending != nil {
				areas = append(areas, pending)
			}
			pending = &IDAM{
				Start: s, End: e, CRC: crcOf(b),
				C: b[4], H: b[5], R: b[6], N: b[7],
			}
		case MarkDAM, MarkDDAM:
			if pending == nil || pending.End-offs > idamPairWindow ||
				offs-pending.End > idamPairWindow {
				// No ID field close enough: standalone corrupt placeholder.
				areas = append(areas, &DAM{
					Start: offs, End: offs + 4*cellsPerByte,
					CRC: CRCBad, Mark: mark,
				})
			} else {
				sz := 128 << pending.N
				s, e := offs, offs+(4+sz+2)*cellsPerByte
				if bits.Len() < e {
					continue
				}
				b := Decode(bits.Bytes(s, e))
				dam := &DAM{
					Start: s, End: e, CRC: crcOf(b),
					Mark: mark, Data: b[4 : len(b)-2],
				}
				areas = append(areas, NewSector(pending, dam))
			}
			pending = nil
		}
	}
	if pending != nil {
		// ID field with no data field before end of stream.
		areas = append(areas, pending)
	}

	return areas, hasIAM
}

// normalizeAreas re-expresses stream-relative offsets as index-relative ones
// by locating the revolution interval each area falls in and subtracting its
// lower bound. Areas are left sorted by start offset.
func normalizeAreas(areas []area, revs []int) {
	sortAreas(areas)
	p, n := 0, math.MaxInt
	next := 0
	if len(revs) > 0 {
		n = revs[0]
		next = 1
	}
	for _, a := range areas {
		if a.start() >= n {
			p = n
			if next < len(revs) {
				n += revs[next]
				next++
			} else {
				n = math.MaxInt
			}
		}
		a.shift(p)
	}
	sortAreas(areas)
}

func sortAreas(areas []area) {
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].start() < areas[j].start()
	})
}

// mergeAreas folds normalized areas into the persistent per-track lists.
// An area within areaMatchWindow of a same-kind entry is the same physical
// area: a clean sector read replaces a corrupt one, anything else is dropped
// as a duplicate. Standalone ID and data fields are not retained.
func mergeAreas(iams []*IAM, sectors []*Sector, areas []area) ([]*IAM, []*Sector) {
	for _, a := range areas {
		switch a := a.(type) {
		case *IAM:
			if !containsNearIAM(iams, a.Start) {
				iams = append(iams, a)
			}
		case *Sector:
			dup := false
			for i, s := range sectors {
				if absInt(s.start()-a.start()) < areaMatchWindow {
					if s.CRC != 0 && a.CRC == 0 {
						sectors[i] = a
					}
					dup = true
					break
				}
			}
			if !dup {
				sectors = append(sectors, a)
			}
		}
	}
	return iams, sectors
}

func containsNearIAM(iams []*IAM, start int) bool {
	for _, s := range iams {
		if absInt(s.Start-start) < areaMatchWindow {
			return true
		}
	}
	return false
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// file: pkg/mfm/encode.go

package mfm

import "encoding/binary"

// TrackBits is a fully modulated track ready for writing: one revolution of
// bitcells packed MSB-first, plus its rotational period.
type TrackBits struct {
	Bits       []byte
	TimePerRev float64
}

// BitLen returns the number of bitcells in the stream.
func (tb *TrackBits) BitLen() int { return len(tb.Bits) * 8 }

// EncodeTrack serialises the track's areas back into a bitcell stream.
// Index marks and sectors are walked in ascending start order; gap and
// presync filler is emitted to carry the stream to each area's position, the
// sync run and modulated field bytes follow with a freshly computed CRC, and
// a trailing gap pads the stream to the full revolution. The whole stream
// then passes through the clock-insertion rule.
func (t *Track) EncodeTrack() *TrackBits {
	out := make([]byte, 0, 4096)

	// Gap bytes take the plain encoding; emitted counts are in source bytes,
	// so the current position in bytes is len(out)/2.
	fillTo := func(target int) {
		if gap := target - len(out)/2; gap > 0 {
			fill := make([]byte, gap)
			for i := range fill {
				fill[i] = gapByte
			}
			out = append(out, Encode(fill)...)
		}
	}

	for _, a := range t.areasByStart() {
		switch a := a.(type) {
		case *IAM:
			fillTo(a.Start/cellsPerByte - gapPresync)
			out = append(out, Encode(make([]byte, gapPresync))...)
			out = append(out, iamSyncBytes...)
			out = append(out, Encode([]byte{byte(MarkIAM)})...)
		case *Sector:
			fillTo(a.IDAM.Start/cellsPerByte - gapPresync)
			out = append(out, Encode(make([]byte, gapPresync))...)
			out = append(out, fieldSyncBytes...)
			idam := []byte{0xa1, 0xa1, 0xa1, byte(MarkIDAM),
				a.IDAM.C, a.IDAM.H, a.IDAM.R, a.IDAM.N}
			idam = binary.BigEndian.AppendUint16(idam, crcOf(idam))
			out = append(out, Encode(idam[3:])...)

			fillTo(a.DAM.Start/cellsPerByte - gapPresync)
			out = append(out, Encode(make([]byte, gapPresync))...)
			out = append(out, fieldSyncBytes...)
			dam := append([]byte{0xa1, 0xa1, 0xa1, byte(a.DAM.Mark)}, a.DAM.Data...)
			dam = binary.BigEndian.AppendUint16(dam, crcOf(dam))
			out = append(out, Encode(dam[3:])...)
		}
	}

	// Pre-index gap out to the nominal revolution length.
	fillTo(int(t.TimePerRev/t.Clock) / cellsPerByte)

	return &TrackBits{Bits: ClockEncode(out), TimePerRev: t.TimePerRev}
}

// areasByStart merges the two offset-sorted area lists into one, stably.
func (t *Track) areasByStart() []area {
	merged := make([]area, 0, len(t.IAMs)+len(t.Sectors))
	i, j := 0, 0
	for i < len(t.IAMs) || j < len(t.Sectors) {
		if j >= len(t.Sectors) ||
			(i < len(t.IAMs) && t.IAMs[i].Start <= t.Sectors[j].start()) {
			merged = append(merged, t.IAMs[i])
			i++
		} else {
			merged = append(merged, t.Sectors[j])
			j++
		}
	}
	return merged
}

// file: pkg/mfm/track_test.go

package mfm

import (
	"bytes"
	"testing"

	"github.com/ha1tch/mfmtrack/pkg/bitstream"
)

func testConfig(secs int) *Config {
	cfg := DefaultConfig()
	cfg.Secs = secs
	cfg.Sz = []int{2}
	cfg.Rate = 250
	return cfg
}

// buildFormatted synthesizes a DD track, loads a deterministic image and
// returns the track, its encoded bitcell stream and the image.
func buildFormatted(t *testing.T, secs int) (*FormattedTrack, *TrackBits, []byte) {
	t.Helper()
	ft := FromConfig(testConfig(secs), 0, 0)
	img := make([]byte, ft.ImageSize())
	for i := range img {
		img[i] = byte(i*7 + i>>9)
	}
	ft.SetImage(img)
	return ft, ft.EncodeTrack(), img
}

func flipBit(b []byte, bit int) {
	b[bit/8] ^= 0x80 >> uint(bit%8)
}

func TestDecodeFormattedTrack(t *testing.T) {
	_, tb, img := buildFormatted(t, 9)

	track := NewTrack(0, 0)
	track.DecodeBits(bitstream.FromBytes(tb.Bits, -1), []int{tb.BitLen()})

	if !track.HasIAM {
		t.Error("index mark not found")
	}
	if len(track.IAMs) != 1 {
		t.Errorf("found %d index marks, want 1", len(track.IAMs))
	}
	if len(track.Sectors) != 9 {
		t.Fatalf("found %d sectors, want 9", len(track.Sectors))
	}
	if n := track.NrMissing(); n != 0 {
		t.Errorf("NrMissing = %d, want 0", n)
	}
	for _, s := range track.Sectors {
		if s.IDAM.C != 0 || s.IDAM.H != 0 {
			t.Errorf("sector %d has C/H %d/%d, want 0/0", s.IDAM.R, s.IDAM.C, s.IDAM.H)
		}
		if s.IDAM.N != 2 || len(s.DAM.Data) != 512 {
			t.Errorf("sector %d has size code %d, payload %d bytes",
				s.IDAM.R, s.IDAM.N, len(s.DAM.Data))
		}
		want := img[(int(s.IDAM.R)-1)*512 : int(s.IDAM.R)*512]
		if !bytes.Equal(s.DAM.Data, want) {
			t.Errorf("sector %d payload mismatch", s.IDAM.R)
		}
	}
}

func TestDecodeDeduplicatesRevolutions(t *testing.T) {
	_, tb, _ := buildFormatted(t, 9)

	two := append(append([]byte{}, tb.Bits...), tb.Bits...)
	track := NewTrack(0, 0)
	track.DecodeBits(bitstream.FromBytes(two, -1),
		[]int{tb.BitLen(), tb.BitLen()})

	if len(track.Sectors) != 9 {
		t.Errorf("two identical revolutions produced %d sectors, want 9",
			len(track.Sectors))
	}
	if len(track.IAMs) != 1 {
		t.Errorf("two identical revolutions produced %d index marks, want 1",
			len(track.IAMs))
	}
	if n := track.NrMissing(); n != 0 {
		t.Errorf("NrMissing = %d, want 0", n)
	}
}

func TestDecodePrefersCleanRevolution(t *testing.T) {
	ft, tb, _ := buildFormatted(t, 9)

	// Corrupt one payload data bit in the first revolution only.
	bad := append([]byte{}, tb.Bits...)
	flipBit(bad, ft.Sectors[0].DAM.Start+4*cellsPerByte+1)

	track := NewTrack(0, 0)
	track.DecodeBits(bitstream.FromBytes(bad, -1), []int{tb.BitLen()})
	if n := track.NrMissing(); n != 1 {
		t.Fatalf("corrupt revolution gave NrMissing = %d, want 1", n)
	}

	track.DecodeBits(bitstream.FromBytes(tb.Bits, -1), []int{tb.BitLen()})
	if len(track.Sectors) != 9 {
		t.Errorf("merged %d sectors, want 9", len(track.Sectors))
	}
	if n := track.NrMissing(); n != 0 {
		t.Errorf("clean revolution did not repair the sector: NrMissing = %d", n)
	}
}

func TestDecodeKeepsGoodOverBad(t *testing.T) {
	ft, tb, _ := buildFormatted(t, 9)

	bad := append([]byte{}, tb.Bits...)
	flipBit(bad, ft.Sectors[0].DAM.Start+4*cellsPerByte+1)

	// Clean read first, corrupt read second: the good data must survive.
	track := NewTrack(0, 0)
	track.DecodeBits(bitstream.FromBytes(tb.Bits, -1), []int{tb.BitLen()})
	track.DecodeBits(bitstream.FromBytes(bad, -1), []int{tb.BitLen()})
	if n := track.NrMissing(); n != 0 {
		t.Errorf("bad re-read clobbered a good sector: NrMissing = %d", n)
	}
}

func TestDecodeStandaloneDataField(t *testing.T) {
	// Field sync followed directly by a data mark, no ID field anywhere:
	// a corrupt placeholder with the bad-CRC sentinel.
	raw := append(append([]byte{}, fieldSyncBytes...),
		Encode([]byte{byte(MarkDAM), 0x00})...)
	areas, _ := decodeAreas(bitstream.FromBytes(raw, -1))

	if len(areas) != 1 {
		t.Fatalf("decoded %d areas, want 1", len(areas))
	}
	dam, ok := areas[0].(*DAM)
	if !ok {
		t.Fatalf("decoded %T, want *DAM", areas[0])
	}
	if dam.Start != 0 || dam.End != 4*cellsPerByte {
		t.Errorf("placeholder extent [%d,%d), want [0,%d)", dam.Start, dam.End, 4*cellsPerByte)
	}
	if dam.CRC != CRCBad {
		t.Errorf("placeholder CRC %04x, want %04x", dam.CRC, CRCBad)
	}
	if dam.Mark != MarkDAM {
		t.Errorf("placeholder mark %02x, want %02x", dam.Mark, MarkDAM)
	}
}

func TestDecodeUnpairedIDField(t *testing.T) {
	// A complete ID field with no data field before end of stream is kept
	// standalone with a valid CRC.
	field := []byte{0xA1, 0xA1, 0xA1, byte(MarkIDAM), 5, 1, 3, 2}
	crc := crcOf(field)
	field = append(field, byte(crc>>8), byte(crc))
	raw := append(append([]byte{}, fieldSyncBytes...), Encode(field[3:])...)

	areas, _ := decodeAreas(bitstream.FromBytes(raw, -1))
	if len(areas) != 1 {
		t.Fatalf("decoded %d areas, want 1", len(areas))
	}
	idam, ok := areas[0].(*IDAM)
	if !ok {
		t.Fatalf("decoded %T, want *IDAM", areas[0])
	}
	if idam.CRC != 0 {
		t.Errorf("ID field CRC %04x, want 0", idam.CRC)
	}
	if idam.C != 5 || idam.H != 1 || idam.R != 3 || idam.N != 2 {
		t.Errorf("ID field CHRN = %d/%d/%d/%d", idam.C, idam.H, idam.R, idam.N)
	}
}

func TestDecodeIgnoresUnknownMark(t *testing.T) {
	raw := append(append([]byte{}, fieldSyncBytes...), Encode([]byte{0x77, 0x00})...)
	areas, hasIAM := decodeAreas(bitstream.FromBytes(raw, -1))
	if len(areas) != 0 || hasIAM {
		t.Errorf("unknown mark produced areas %v", areas)
	}
}

func TestDecodeTruncatedCapture(t *testing.T) {
	ft, tb, _ := buildFormatted(t, 9)

	// Cut the capture just before the last sector's data field: the sync
	// match is gone, the pending ID field stays standalone, and decode
	// carries on without error.
	last := ft.Sectors[len(ft.Sectors)-1]
	cut := tb.Bits[:last.DAM.Start/8]

	track := NewTrack(0, 0)
	track.DecodeBits(bitstream.FromBytes(cut, -1), nil)
	if len(track.Sectors) != 8 {
		t.Errorf("truncated capture decoded %d sectors, want 8", len(track.Sectors))
	}
	if n := track.NrMissing(); n != 0 {
		t.Errorf("NrMissing = %d, want 0", n)
	}
}

func TestSummaryString(t *testing.T) {
	_, tb, _ := buildFormatted(t, 9)
	track := NewTrack(0, 0)
	track.DecodeBits(bitstream.FromBytes(tb.Bits, -1), []int{tb.BitLen()})
	if got := track.SummaryString(); got != "IBM MFM (9/9 sectors)" {
		t.Errorf("SummaryString() = %q", got)
	}
}

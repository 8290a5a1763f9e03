// file: pkg/bitstream/bitstream_test.go

package bitstream

import (
	"bytes"
	"testing"
)

func TestBytesAligned(t *testing.T) {
	b := FromBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF}, -1)

	if got := b.Bytes(8, 24); !bytes.Equal(got, []byte{0xAD, 0xBE}) {
		t.Errorf("Bytes(8,24) = %x, want adbe", got)
	}
	if got := b.Bytes(0, 32); !bytes.Equal(got, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("Bytes(0,32) = %x", got)
	}
}

func TestBytesUnaligned(t *testing.T) {
	// 0xF0 0x0F = 11110000 00001111
	b := FromBytes([]byte{0xF0, 0x0F}, -1)

	cases := []struct {
		name       string
		start, end int
		want       []byte
	}{
		{"mid nibbles", 4, 12, []byte{0x00}},
		{"offset one", 1, 9, []byte{0xE0}},
		{"tail partial", 12, 16, []byte{0xF0}},
		{"clamped end", 8, 99, []byte{0x0F}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Bytes(tc.start, tc.end); !bytes.Equal(got, tc.want) {
				t.Errorf("Bytes(%d,%d) = %x, want %x", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	// Two copies of the 16-bit pattern 0x4489 separated by filler.
	raw := []byte{0x00, 0x44, 0x89, 0xFF, 0x44, 0x89}
	b := FromBytes(raw, -1)

	offs, err := b.Search(0x4489, 16)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	want := []int{8, 32}
	if len(offs) != len(want) {
		t.Fatalf("Search found %v, want %v", offs, want)
	}
	for i := range want {
		if offs[i] != want[i] {
			t.Errorf("match %d at %d, want %d", i, offs[i], want[i])
		}
	}
}

func TestSearchUnalignedMatch(t *testing.T) {
	// Pattern 0b101 at bit offset 3: 00010100 -> 0x14
	b := FromBytes([]byte{0x14}, -1)
	offs, err := b.Search(0b101, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	found := false
	for _, o := range offs {
		if o == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a match at offset 3, got %v", offs)
	}
}

func TestSearchBadWidth(t *testing.T) {
	b := FromBytes([]byte{0xAA}, -1)
	if _, err := b.Search(0, 0); err == nil {
		t.Error("width 0 should be rejected")
	}
	if _, err := b.Search(0, 65); err == nil {
		t.Error("width 65 should be rejected")
	}
}

func TestTruncatedLength(t *testing.T) {
	b := FromBytes([]byte{0xFF, 0xFF}, 10)
	if b.Len() != 10 {
		t.Fatalf("Len = %d, want 10", b.Len())
	}
	if b.Bit(9) != 1 || b.Bit(10) != 0 {
		t.Error("bits past the declared length must read as 0")
	}
}

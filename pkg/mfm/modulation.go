// file: pkg/mfm/modulation.go

// Package mfm implements a bidirectional codec between a raw flux-derived
// bitcell stream and the structured layout of an IBM-format MFM floppy track:
// index marks, sector ID fields, data fields and the gaps between them.
// It consumes bits already recovered by a demodulator/PLL and produces either
// a structured track or a bitcell stream ready for writing; it owns no
// hardware and no disk-image container semantics.
package mfm

// Each source byte occupies 16 bitcells once encoded: data bits sit in the
// odd bitcell positions, clock bits in the even ones.
const cellsPerByte = 16

var modTable = makeModTable()

func makeModTable() [256]uint16 {
	var tab [256]uint16
	for x := 0; x < 256; x++ {
		var y uint16
		for i := 0; i < 8; i++ {
			y <<= 2
			y |= uint16(x>>(7-uint(i))) & 1
		}
		tab[x] = y
	}
	return tab
}

var demodTable = makeDemodTable()

func makeDemodTable() [0x5556]byte {
	var tab [0x5556]byte
	for x := 0; x <= 0x5555; x++ {
		var y byte
		for i := 0; i < 8; i++ {
			if x&(1<<(2*uint(i))) != 0 {
				y |= 1 << uint(i)
			}
		}
		tab[x] = y
	}
	return tab
}

// Encode spreads each source byte into its 16-bitcell form, two output bytes
// per input byte, big-endian. Neighbouring bytes do not influence each other;
// clock bits are left clear (see ClockEncode).
func Encode(dat []byte) []byte {
	out := make([]byte, 0, len(dat)*2)
	for _, x := range dat {
		v := modTable[x]
		out = append(out, byte(v>>8), byte(v))
	}
	return out
}

// Decode extracts the data bits from a bitcell byte stream, discarding clock
// bits. It is the inverse of Encode; a trailing odd byte is ignored.
func Decode(dat []byte) []byte {
	out := make([]byte, 0, len(dat)/2)
	for i := 0; i+1 < len(dat); i += 2 {
		v := (uint16(dat[i])<<8 | uint16(dat[i+1])) & 0x5555
		out = append(out, demodTable[v])
	}
	return out
}

// ClockEncode applies the MFM clock-insertion rule to an encoded bitcell byte
// stream: wherever a byte carries no data bits, clock bits are forced into
// every cell whose horizontal neighbours are also empty. The scan is
// sequential left to right, carrying the previous output byte, because each
// decision depends on the bit immediately before the current byte.
func ClockEncode(dat []byte) []byte {
	out := make([]byte, 0, len(dat))
	var y uint16
	for _, x := range dat {
		y = y<<8 | uint16(x)
		if x&0xaa == 0 {
			y |= ^(y>>1 | y<<1) & 0xaaaa
		}
		y &= 0xff
		out = append(out, byte(y))
	}
	return out
}

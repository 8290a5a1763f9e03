// file: pkg/mfm/area.go

package mfm

import "bytes"

// Mark is an IBM address-mark byte value, the closed set fixed by the MFM
// standard.
type Mark uint8

const (
	MarkIAM  Mark = 0xFC // index address mark
	MarkIDAM Mark = 0xFE // sector ID address mark
	MarkDAM  Mark = 0xFB // data address mark
	MarkDDAM Mark = 0xF8 // deleted-data address mark
)

const (
	// Sync runs, three 16-bit words on the wire. The field sync is the
	// classic A1 byte with a missing clock bit; the index sync is the C2
	// equivalent used only before the IAM.
	iamSyncPattern   uint64 = 0x522452245224
	fieldSyncPattern uint64 = 0x448944894489
	syncPatternBits         = 48

	gapByte    = 0x4e
	gapPresync = 12 // zero bytes preceding every sync run

	// CRCBad marks a field that was never successfully checked.
	CRCBad = 0xFFFF
)

var (
	iamSyncBytes   = []byte{0x52, 0x24, 0x52, 0x24, 0x52, 0x24}
	fieldSyncBytes = []byte{0x44, 0x89, 0x44, 0x89, 0x44, 0x89}
)

// area is any track region with a bitcell extent relative to some origin
// (stream start while decoding, track index after normalization).
type area interface {
	start() int
	shift(delta int)
}

// IAM is an index address mark area.
type IAM struct {
	Start, End int
}

func (a *IAM) start() int      { return a.Start }
func (a *IAM) shift(delta int) { a.Start -= delta; a.End -= delta }

// Equal reports value equality.
func (a *IAM) Equal(o *IAM) bool { return a.Start == o.Start && a.End == o.End }

// IDAM is a sector ID field: cylinder, head, sector ID and size code. A CRC
// of zero means the field was read and validated.
type IDAM struct {
	Start, End int
	CRC        uint16
	C, H, R, N uint8
}

func (a *IDAM) start() int      { return a.Start }
func (a *IDAM) shift(delta int) { a.Start -= delta; a.End -= delta }

// Equal reports value equality.
func (a *IDAM) Equal(o *IDAM) bool {
	return a.Start == o.Start && a.End == o.End && a.CRC == o.CRC &&
		a.C == o.C && a.H == o.H && a.R == o.R && a.N == o.N
}

// DAM is a data field. Data holds the 128<<N payload bytes of the paired ID
// field; a standalone corrupt placeholder has no payload and CRC CRCBad.
type DAM struct {
	Start, End int
	CRC        uint16
	Mark       Mark
	Data       []byte
}

func (a *DAM) start() int      { return a.Start }
func (a *DAM) shift(delta int) { a.Start -= delta; a.End -= delta }

// Equal reports value equality, including payload bytes.
func (a *DAM) Equal(o *DAM) bool {
	return a.Start == o.Start && a.End == o.End && a.CRC == o.CRC &&
		a.Mark == o.Mark && bytes.Equal(a.Data, o.Data)
}

// Sector pairs an ID field with its data field. CRC is the OR of the child
// CRCs at construction time; a sector is good when it is zero.
type Sector struct {
	IDAM *IDAM
	DAM  *DAM
	CRC  uint16
}

// NewSector pairs an ID and data field into a sector.
func NewSector(idam *IDAM, dam *DAM) *Sector {
	return &Sector{IDAM: idam, DAM: dam, CRC: idam.CRC | dam.CRC}
}

func (s *Sector) start() int { return s.IDAM.Start }

func (s *Sector) shift(delta int) {
	s.IDAM.shift(delta)
	s.DAM.shift(delta)
}

// Equal reports value equality of both fields and the combined CRC.
func (s *Sector) Equal(o *Sector) bool {
	return s.CRC == o.CRC && s.IDAM.Equal(o.IDAM) && s.DAM.Equal(o.DAM)
}

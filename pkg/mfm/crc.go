// file: pkg/mfm/crc.go

package mfm

import "github.com/sigurn/crc16"

// CRC-16/CCITT-FALSE: poly 0x1021, init 0xFFFF, no reflection. A field CRC of
// zero over the full field (sync prefix, mark, body, stored CRC) means valid.
var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

func crcOf(chunks ...[]byte) uint16 {
	crc := crc16.Init(crcTable)
	for _, c := range chunks {
		crc = crc16.Update(crc, c, crcTable)
	}
	return crc16.Complete(crc, crcTable)
}

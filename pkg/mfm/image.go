// file: pkg/mfm/image.go

package mfm

import "sort"

// ImageSize returns the number of payload bytes the track exchanges with a
// linear sector image: the fixed stride per sector when configured,
// otherwise the sum of the natural sector sizes.
func (ft *FormattedTrack) ImageSize() int {
	if ft.ImgBPS != 0 {
		return len(ft.Sectors) * ft.ImgBPS
	}
	total := 0
	for _, s := range ft.Sectors {
		total += 128 << s.IDAM.N
	}
	return total
}

// SetImage distributes a linear byte buffer across the sectors in ascending
// sector-ID order, 128<<N bytes each (stepping by the fixed stride when
// configured), and clears all CRCs to mark the sectors provisionally valid.
// Short buffers are zero-padded. It returns the image size consumed.
func (ft *FormattedTrack) SetImage(tdat []byte) int {
	ft.sortByID()
	totsize := ft.ImageSize()
	if len(tdat) < totsize {
		tdat = append(tdat, make([]byte, totsize-len(tdat))...)
	}
	pos := 0
	for _, s := range ft.Sectors {
		s.CRC, s.IDAM.CRC, s.DAM.CRC = 0, 0, 0
		size := 128 << s.IDAM.N
		end := pos + size
		if end > len(tdat) {
			// A stride smaller than the sector size leaves the tail short;
			// GetImage pads it back out.
			end = len(tdat)
		}
		s.DAM.Data = tdat[pos:end]
		if ft.ImgBPS != 0 {
			pos += ft.ImgBPS
		} else {
			pos += size
		}
	}
	ft.sortByStart()
	return totsize
}

// GetImage gathers sector payloads into a linear buffer in ascending
// sector-ID order, padding each slice to the fixed stride when configured.
func (ft *FormattedTrack) GetImage() []byte {
	sectors := make([]*Sector, len(ft.Sectors))
	copy(sectors, ft.Sectors)
	sort.SliceStable(sectors, func(i, j int) bool {
		return sectors[i].IDAM.R < sectors[j].IDAM.R
	})
	tdat := make([]byte, 0, ft.ImageSize())
	for _, s := range sectors {
		tdat = append(tdat, s.DAM.Data...)
		if pad := ft.ImgBPS - len(s.DAM.Data); ft.ImgBPS != 0 && pad > 0 {
			tdat = append(tdat, make([]byte, pad)...)
		}
	}
	return tdat
}

func (ft *FormattedTrack) sortByID() {
	sort.SliceStable(ft.Sectors, func(i, j int) bool {
		return ft.Sectors[i].IDAM.R < ft.Sectors[j].IDAM.R
	})
}

func (ft *FormattedTrack) sortByStart() {
	sort.SliceStable(ft.Sectors, func(i, j int) bool {
		return ft.Sectors[i].start() < ft.Sectors[j].start()
	})
}

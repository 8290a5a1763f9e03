// file: cmd/decode/decode.go

package decode

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ha1tch/mfmtrack/pkg/bitstream"
	"github.com/ha1tch/mfmtrack/pkg/mfm"
)

// TrackReport represents a decoded track in a structured format
type TrackReport struct {
	Path    string         `json:"path"`
	Format  string         `json:"format"`
	HasIAM  bool           `json:"has_iam"`
	Sectors []SectorReport `json:"sectors"`
	NrGood  int            `json:"good_sectors"`
	NrBad   int            `json:"bad_sectors"`
}

// SectorReport represents one decoded sector
type SectorReport struct {
	Cyl     uint8 `json:"c"`
	Head    uint8 `json:"h"`
	ID      uint8 `json:"r"`
	Size    int   `json:"size"`
	Offset  int   `json:"offset"`
	Good    bool  `json:"good"`
	Deleted bool  `json:"deleted,omitempty"`
}

// DecodeOptions configures the decode listing
type DecodeOptions struct {
	Revs  []int // Revolution bit lengths; empty = whole capture is one rev
	JSON  bool  // Output in JSON format
	Quiet bool  // Suppress the per-sector listing
}

// DefaultDecodeOptions returns default options for Decode
func DefaultDecodeOptions() *DecodeOptions {
	return &DecodeOptions{}
}

// Decode reads a bitcell-stream capture and reports the track structure.
func Decode(bitsPath string, opts *DecodeOptions) error {
	if opts == nil {
		opts = DefaultDecodeOptions()
	}

	raw, err := os.ReadFile(bitsPath)
	if err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}

	track := mfm.NewTrack(0, 0)
	track.DecodeBits(bitstream.FromBytes(raw, -1), opts.Revs)

	report := &TrackReport{
		Path:   bitsPath,
		Format: track.SummaryString(),
		HasIAM: track.HasIAM,
	}
	for _, s := range track.Sectors {
		good := s.IDAM.CRC == 0 && s.DAM.CRC == 0
		if good {
			report.NrGood++
		} else {
			report.NrBad++
		}
		report.Sectors = append(report.Sectors, SectorReport{
			Cyl:     s.IDAM.C,
			Head:    s.IDAM.H,
			ID:      s.IDAM.R,
			Size:    128 << s.IDAM.N,
			Offset:  s.IDAM.Start,
			Good:    good,
			Deleted: s.DAM.Mark == mfm.MarkDDAM,
		})
	}

	if opts.JSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s: %s\n", bitsPath, report.Format)
	if opts.Quiet {
		return nil
	}
	for _, s := range report.Sectors {
		status := "ok"
		if !s.Good {
			status = "BAD"
		}
		fmt.Printf("  C:%d H:%d R:%d %5d bytes @%-7d %s\n",
			s.Cyl, s.Head, s.ID, s.Size, s.Offset, status)
	}
	return nil
}

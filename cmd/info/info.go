// file: cmd/info/info.go

package info

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ha1tch/mfmtrack/pkg/mfm"
)

// TrackLayout represents a synthesized track layout in a structured format
type TrackLayout struct {
	Path       string        `json:"path"`
	Format     string        `json:"format"`
	Cyl        int           `json:"cyl"`
	Head       int           `json:"head"`
	ClockNS    float64       `json:"clock_ns"`
	RevMS      float64       `json:"rev_ms"`
	Bitcells   int           `json:"bitcells"`
	ImageBytes int           `json:"image_bytes"`
	HasIAM     bool          `json:"has_iam"`
	Sectors    []SectorEntry `json:"sectors"`
}

// SectorEntry represents one placed sector
type SectorEntry struct {
	ID       uint8 `json:"r"`
	SizeCode uint8 `json:"n"`
	Size     int   `json:"size"`
	IDStart  int   `json:"id_start"`
	Start    int   `json:"data_start"`
	End      int   `json:"data_end"`
}

// InfoOptions configures the information display
type InfoOptions struct {
	Cyl   int  // Cylinder to lay out
	Head  int  // Head to lay out
	JSON  bool // Output in JSON format
	Quiet bool // Suppress the per-sector listing
}

// DefaultInfoOptions returns default options for Info
func DefaultInfoOptions() *InfoOptions {
	return &InfoOptions{}
}

// Info displays the deterministic layout a geometry file produces.
func Info(geoPath string, opts *InfoOptions) error {
	if opts == nil {
		opts = DefaultInfoOptions()
	}

	if _, err := os.Stat(geoPath); os.IsNotExist(err) {
		return fmt.Errorf("geometry file does not exist: %w", err)
	}

	cfg, err := mfm.LoadConfig(geoPath)
	if err != nil {
		return fmt.Errorf("failed to load geometry: %w", err)
	}

	track := mfm.FromConfig(cfg, opts.Cyl, opts.Head)
	tb := track.EncodeTrack()

	layout := &TrackLayout{
		Path:       geoPath,
		Format:     "IBM MFM",
		Cyl:        opts.Cyl,
		Head:       opts.Head,
		ClockNS:    track.Clock * 1e9,
		RevMS:      track.TimePerRev * 1e3,
		Bitcells:   tb.BitLen(),
		ImageBytes: track.ImageSize(),
		HasIAM:     len(track.IAMs) != 0,
	}
	for _, s := range track.Sectors {
		layout.Sectors = append(layout.Sectors, SectorEntry{
			ID:       s.IDAM.R,
			SizeCode: s.IDAM.N,
			Size:     128 << s.IDAM.N,
			IDStart:  s.IDAM.Start,
			Start:    s.DAM.Start,
			End:      s.DAM.End,
		})
	}

	if opts.JSON {
		out, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s: C%d H%d, %d sectors, %d bitcells, %.0f ns/cell, %.1f ms/rev\n",
		geoPath, layout.Cyl, layout.Head, len(layout.Sectors),
		layout.Bitcells, layout.ClockNS, layout.RevMS)
	if opts.Quiet {
		return nil
	}
	for _, s := range layout.Sectors {
		fmt.Printf("  R:%-3d %5d bytes  id@%-7d data@%d..%d\n",
			s.ID, s.Size, s.IDStart, s.Start, s.End)
	}
	return nil
}

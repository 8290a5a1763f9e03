// file: cmd/format/format.go

package format

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ha1tch/mfmtrack/pkg/mfm"
)

// FormatOptions configures track synthesis
type FormatOptions struct {
	Cyl   int    // Cylinder to format
	Head  int    // Head to format
	Image string // Optional sector image file to load into the track
	Force bool   // Overwrite existing output
	Quiet bool   // Suppress non-error output
}

// DefaultFormatOptions returns default options for Format
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{}
}

// Format synthesizes a formatted track from a YAML geometry file and writes
// the modulated bitcell stream to outPath.
func Format(geoPath, outPath string, opts *FormatOptions) error {
	if opts == nil {
		opts = DefaultFormatOptions()
	}

	outPath = filepath.Clean(outPath)
	if !opts.Force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("file already exists: %s (use force to overwrite)", outPath)
		}
	}

	cfg, err := mfm.LoadConfig(geoPath)
	if err != nil {
		return fmt.Errorf("failed to load geometry: %w", err)
	}

	track := mfm.FromConfig(cfg, opts.Cyl, opts.Head)

	if opts.Image != "" {
		img, err := os.ReadFile(opts.Image)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		track.SetImage(img)
	}

	tb := track.EncodeTrack()
	if err := os.WriteFile(outPath, tb.Bits, 0644); err != nil {
		return fmt.Errorf("failed to write track: %w", err)
	}

	if !opts.Quiet {
		fmt.Printf("Wrote %s: %s, %d bitcells, %.2f us/cell\n",
			outPath, track.SummaryString(), tb.BitLen(), track.Clock*1e6)
	}
	return nil
}

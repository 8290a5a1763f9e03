// file: cmd/export/export.go

package export

import (
	"fmt"
	"os"

	"github.com/ha1tch/mfmtrack/pkg/bitstream"
	"github.com/ha1tch/mfmtrack/pkg/mfm"
)

// ExportOptions configures readback export
type ExportOptions struct {
	Cyl    int   // Expected cylinder
	Head   int   // Expected head
	Revs   []int // Revolution bit lengths in the capture
	Strict bool  // Fail when any sector is missing or bad
	Quiet  bool  // Suppress non-error output
}

// DefaultExportOptions returns default options for Export
func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{}
}

// Export decodes a capture against an expected geometry and writes the
// linear sector image to outPath. Missing sectors keep their placeholder
// fill unless Strict is set.
func Export(bitsPath, geoPath, outPath string, opts *ExportOptions) error {
	if opts == nil {
		opts = DefaultExportOptions()
	}

	cfg, err := mfm.LoadConfig(geoPath)
	if err != nil {
		return fmt.Errorf("failed to load geometry: %w", err)
	}

	raw, err := os.ReadFile(bitsPath)
	if err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}

	track := mfm.FromConfig(cfg, opts.Cyl, opts.Head)
	track.DecodeBits(bitstream.FromBytes(raw, -1), opts.Revs)

	if missing := track.NrMissing(); missing != 0 {
		if opts.Strict {
			return fmt.Errorf("%d of %d sectors missing or bad", missing, len(track.Sectors))
		}
		if !opts.Quiet {
			fmt.Printf("Warning: %d of %d sectors missing or bad\n",
				missing, len(track.Sectors))
		}
	}

	img := track.GetImage()
	if err := os.WriteFile(outPath, img, 0644); err != nil {
		// Clean up partial output file on error
		os.Remove(outPath)
		return fmt.Errorf("failed to write image: %w", err)
	}

	if !opts.Quiet {
		fmt.Printf("Exported %d bytes from %s (%s)\n",
			len(img), bitsPath, track.SummaryString())
	}
	return nil
}

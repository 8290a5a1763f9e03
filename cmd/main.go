// file: cmd/main.go

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/mfmtrack/cmd/decode"
	"github.com/ha1tch/mfmtrack/cmd/export"
	"github.com/ha1tch/mfmtrack/cmd/format"
	"github.com/ha1tch/mfmtrack/cmd/info"
	"github.com/ha1tch/mfmtrack/internal"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mfmtrack",
	Short: "IBM MFM track codec",
	Long: `mfmtrack converts between raw flux-derived bitcell captures and the
structured layout of IBM-format MFM floppy tracks: it synthesizes formatted
tracks from a geometry file, decodes captures back into sectors, and exports
sector images from readbacks.`,
}

func newFormatCmd() *cobra.Command {
	opts := format.DefaultFormatOptions()
	cmd := &cobra.Command{
		Use:   "format <geometry.yaml> <out.bits>",
		Short: "Synthesize a formatted track and write its bitcell stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return format.Format(args[0], args[1], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Cyl, "cyl", "c", 0, "cylinder to format")
	cmd.Flags().IntVarP(&opts.Head, "head", "H", 0, "head to format")
	cmd.Flags().StringVarP(&opts.Image, "image", "i", "", "sector image file to load")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite existing output")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress non-error output")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	opts := decode.DefaultDecodeOptions()
	var revs string
	cmd := &cobra.Command{
		Use:   "decode <capture.bits>",
		Short: "Decode a bitcell capture and list its sectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.Revs, err = internal.ParseRevs(revs); err != nil {
				return err
			}
			return decode.Decode(args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&revs, "revs", "r", "", "comma-separated revolution bit lengths")
	cmd.Flags().BoolVarP(&opts.JSON, "json", "j", false, "output in JSON format")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress the sector listing")
	return cmd
}

func newExportCmd() *cobra.Command {
	opts := export.DefaultExportOptions()
	var revs string
	cmd := &cobra.Command{
		Use:   "export <capture.bits> <geometry.yaml> <out.img>",
		Short: "Export the linear sector image from a readback capture",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.Revs, err = internal.ParseRevs(revs); err != nil {
				return err
			}
			return export.Export(args[0], args[1], args[2], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Cyl, "cyl", "c", 0, "expected cylinder")
	cmd.Flags().IntVarP(&opts.Head, "head", "H", 0, "expected head")
	cmd.Flags().StringVarP(&revs, "revs", "r", "", "comma-separated revolution bit lengths")
	cmd.Flags().BoolVarP(&opts.Strict, "strict", "s", false, "fail on missing or bad sectors")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress non-error output")
	return cmd
}

func newInfoCmd() *cobra.Command {
	opts := info.DefaultInfoOptions()
	cmd := &cobra.Command{
		Use:   "info <geometry.yaml>",
		Short: "Show the layout a geometry file produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return info.Info(args[0], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Cyl, "cyl", "c", 0, "cylinder to lay out")
	cmd.Flags().IntVarP(&opts.Head, "head", "H", 0, "head to lay out")
	cmd.Flags().BoolVarP(&opts.JSON, "json", "j", false, "output in JSON format")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress the sector listing")
	return cmd
}

func main() {
	log.SetFlags(0)
	rootCmd.AddCommand(newFormatCmd(), newDecodeCmd(), newExportCmd(), newInfoCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

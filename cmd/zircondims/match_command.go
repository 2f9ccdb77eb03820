package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zircon-dims/internal/mosaic"
)

type matchOptions struct {
	scanDir        string
	mosaicDir      string
	maxOutOfBounds int
	sample         string
	zirconSize     float64
	xOffset        float64
	yOffset        float64
	infoOut        string
	matchesOut     string
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var opts matchOptions

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match scanlists to mosaics and write a mosaic info table",
		Long: `Checks every scanlist in --scans against every alignment file in --mosaics.
A scanlist matches a mosaic when at most --max-out-of-bounds of its spots fall
outside the mosaic rectangle. Each matched scanlist gets one info row using its
first candidate mosaic; verify these assignments by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			params := cfg.MatchParams().WithLogger(ctx.logger)
			if cmd.Flags().Changed("max-out-of-bounds") {
				params = params.WithMaxOutOfBounds(opts.maxOutOfBounds)
			}
			defaults := cfg.InfoDefaults()
			if cmd.Flags().Changed("sample") {
				defaults.Sample = opts.sample
			}
			if cmd.Flags().Changed("zircon-size") {
				defaults.MaxZirconSize = opts.zirconSize
			}
			if cmd.Flags().Changed("x-offset") {
				defaults.XOffset = opts.xOffset
			}
			if cmd.Flags().Changed("y-offset") {
				defaults.YOffset = opts.yOffset
			}

			ctx.logger.Info("matching scanlists",
				"scans", opts.scanDir,
				"mosaics", opts.mosaicDir,
				"max_out_of_bounds", params.MaxOutOfBounds)

			table, err := mosaic.ComputeMatches(opts.scanDir, opts.mosaicDir, params)
			if err != nil {
				return err
			}
			red := mosaic.ReduceToInfoRecords(table, defaults)
			if len(red.Unmatched) > 0 {
				ctx.logger.Warn("no mosaic matched scanlists", "scanlists", red.Unmatched)
			}

			if opts.matchesOut != "" {
				mf := mosaic.NewMatchFile(table, opts.scanDir, opts.mosaicDir, params.MaxOutOfBounds)
				if err := mf.Save(opts.matchesOut); err != nil {
					return fmt.Errorf("failed to save match file: %w", err)
				}
				ctx.logger.Info("wrote match file", "path", opts.matchesOut)
			}

			if opts.infoOut != "" {
				if err := writeInfoFile(opts.infoOut, red.Records); err != nil {
					return err
				}
				ctx.logger.Info("wrote mosaic info", "path", opts.infoOut, "records", len(red.Records))
			}

			printMatches(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.scanDir, "scans", "", "Directory of scanlist files")
	cmd.Flags().StringVar(&opts.mosaicDir, "mosaics", "", "Directory of mosaic alignment and image files")
	cmd.Flags().IntVar(&opts.maxOutOfBounds, "max-out-of-bounds", mosaic.DefaultBatchMaxOutOfBounds, "Spots allowed outside a mosaic")
	cmd.Flags().StringVar(&opts.sample, "sample", "", "Sample name for info rows")
	cmd.Flags().Float64Var(&opts.zirconSize, "zircon-size", 500, "Max zircon size (µm) for info rows")
	cmd.Flags().Float64Var(&opts.xOffset, "x-offset", 0, "X offset (µm) for info rows")
	cmd.Flags().Float64Var(&opts.yOffset, "y-offset", 0, "Y offset (µm) for info rows")
	cmd.Flags().StringVarP(&opts.infoOut, "out", "o", "", "Write the mosaic info CSV here")
	cmd.Flags().StringVar(&opts.matchesOut, "matches", "", "Write all candidates as a JSON match file here")
	_ = cmd.MarkFlagRequired("scans")
	_ = cmd.MarkFlagRequired("mosaics")

	return cmd
}

func writeInfoFile(path string, records []mosaic.InfoRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create info file: %w", err)
	}
	if err := mosaic.WriteInfoCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write info file: %w", err)
	}
	return f.Close()
}

func printMatches(out io.Writer, table *mosaic.MatchTable) {
	rows := make([][]string, 0, table.Len())
	for _, scan := range table.Scans() {
		candidates := table.Candidates(scan)
		first := "-"
		if len(candidates) > 0 {
			first = candidates[0]
		}
		rows = append(rows, []string{
			scan,
			strconv.Itoa(len(candidates)),
			first,
			strings.Join(candidates, ", "),
		})
	}
	headers := []string{"Scanlist", "Count", "Mosaic", "Candidates"}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight}))
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zircon-dims/internal/mosaic"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var scanPath, alignPath string
	var maxOutOfBounds int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check one scanlist against one mosaic alignment file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tolerance := ctx.config.Match.PairwiseMaxOutOfBounds
			if cmd.Flags().Changed("max-out-of-bounds") {
				tolerance = maxOutOfBounds
			}

			scan, err := mosaic.ParseShotCoordinates(scanPath)
			if err != nil {
				return err
			}
			bounds, err := mosaic.ParseAlignmentBounds(alignPath)
			if err != nil {
				ctx.logger.Warn("using degenerate mosaic bounds", "file", alignPath, "error", err)
			}

			out := mosaic.CountOutOfBounds(scan, bounds)
			ok := mosaic.IsWithinBounds(scan, bounds, tolerance)
			ctx.logger.Debug("bounds check", "scan_extent", scan.Extent().String(), "bounds", bounds.String())

			rows := [][]string{
				{"Spots", fmt.Sprint(scan.Len())},
				{"Out of bounds", fmt.Sprint(out)},
				{"Tolerance", fmt.Sprint(tolerance)},
				{"Mosaic bounds", bounds.String()},
				{"Match", yesNo(ok)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&scanPath, "scanlist", "", "Scanlist file")
	cmd.Flags().StringVar(&alignPath, "align", "", "Mosaic alignment file")
	cmd.Flags().IntVar(&maxOutOfBounds, "max-out-of-bounds", mosaic.DefaultPairwiseMaxOutOfBounds, "Spots allowed outside the mosaic")
	_ = cmd.MarkFlagRequired("scanlist")

	return cmd
}

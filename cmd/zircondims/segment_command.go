package main

import (
	"fmt"
	goimage "image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zircon-dims/internal/image"
	"zircon-dims/internal/segment"
	"zircon-dims/pkg/colorutil"
)

type segmentOptions struct {
	imagePath    string
	center       string
	size         int
	zoomOut      bool
	zoomIn       bool
	contrast     bool
	otsu         bool
	strategies   []string
	maskOut      string
	overlayOut   string
	overlayColor string
}

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	var opts segmentOptions

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Segment the grain at an image center or a mosaic spot",
		Long: `Runs the segmentation cascade on a shot image, or on a window of a mosaic
when --center is given. No model predictor is bundled, so only the enabled
fallbacks (in practice --otsu) can find a grain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !image.IsSupportedFormat(opts.imagePath) {
				return fmt.Errorf("unsupported image format %q (want one of %s)",
					filepath.Ext(opts.imagePath), strings.Join(image.SupportedFormats(), ", "))
			}

			cfg := *ctx.config
			flagBool(cmd, "zoom-out", opts.zoomOut, &cfg.Segment.ZoomOut)
			flagBool(cmd, "zoom-in", opts.zoomIn, &cfg.Segment.ZoomIn)
			flagBool(cmd, "contrast", opts.contrast, &cfg.Segment.Contrast)
			flagBool(cmd, "otsu", opts.otsu, &cfg.Segment.Otsu)
			if cmd.Flags().Changed("strategies") {
				cfg.Segment.Strategies = opts.strategies
			}
			params, err := cfg.SegmentParams()
			if err != nil {
				return err
			}
			size := cfg.Segment.SubImageSize
			if cmd.Flags().Changed("size") {
				size = opts.size
			}

			overlayColor, err := colorutil.Parse(opts.overlayColor)
			if err != nil {
				return err
			}

			layer, err := image.Load(opts.imagePath)
			if err != nil {
				return err
			}
			ctx.logger.Debug("loaded image",
				"path", layer.Path,
				"format", layer.Format,
				"kind", layer.Kind.String(),
				"width", layer.Width(),
				"height", layer.Height())

			cascade := segment.NewCascade(segment.NoCandidates, params).WithLogger(ctx.logger)

			var (
				res segment.Result
				win *image.Window
			)
			if opts.center != "" {
				center, err := parseCenter(opts.center)
				if err != nil {
					return err
				}
				win = layer.Window(center, size)
				ctx.logger.Debug("segmenting window", "center", win.Center().String(), "size", win.Size())
				res = cascade.Segment(win)
			} else {
				if layer.Kind == image.KindMosaic {
					ctx.logger.Warn("segmenting a whole mosaic; pass --center to segment one spot", "path", layer.Path)
				}
				res = cascade.SegmentImage(layer.Image)
			}

			printAttempts(cmd, res)
			if !res.Found {
				ctx.logger.Warn("no grain found", "image", opts.imagePath)
				return nil
			}
			ctx.logger.Info("grain found",
				"strategy", res.Strategy.String(),
				"area", res.Mask.Area(),
				"bounds", res.Mask.Bounds().String())

			maskOut := opts.maskOut
			if maskOut == "" {
				maskOut = strings.TrimSuffix(opts.imagePath, filepath.Ext(opts.imagePath)) + "_mask.png"
			}
			if err := writePNG(maskOut, res.Mask.Gray()); err != nil {
				return err
			}
			ctx.logger.Info("wrote mask", "path", maskOut)

			if opts.overlayOut != "" {
				base := layer.Image
				if win != nil {
					base = win.Resized(res.Mask.Width).Image()
				}
				overlay := colorutil.Overlay(base, res.Mask.At, overlayColor, 0.5)
				if err := writePNG(opts.overlayOut, overlay); err != nil {
					return err
				}
				ctx.logger.Info("wrote overlay", "path", opts.overlayOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.imagePath, "image", "i", "", "Shot or mosaic image")
	cmd.Flags().StringVar(&opts.center, "center", "", "Spot center in mosaic pixels as x,y")
	cmd.Flags().IntVar(&opts.size, "size", 150, "Sub-image edge length in pixels")
	cmd.Flags().BoolVar(&opts.zoomOut, "zoom-out", false, "Retry on a larger sub-image")
	cmd.Flags().BoolVar(&opts.zoomIn, "zoom-in", false, "Retry on a smaller sub-image")
	cmd.Flags().BoolVar(&opts.contrast, "contrast", false, "Retry on a histogram-equalized sub-image")
	cmd.Flags().BoolVar(&opts.otsu, "otsu", false, "Fall back to Otsu thresholding")
	cmd.Flags().StringSliceVar(&opts.strategies, "strategies", nil, "Explicit cascade order, e.g. baseline,zoom-in,otsu (overrides the fallback flags)")
	cmd.Flags().StringVar(&opts.maskOut, "mask-out", "", "Mask PNG path (default <image>_mask.png)")
	cmd.Flags().StringVar(&opts.overlayOut, "overlay-out", "", "Write a mask overlay PNG here")
	cmd.Flags().StringVar(&opts.overlayColor, "overlay-color", "cyan", "Overlay color ("+strings.Join(colorutil.Names(), ", ")+")")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func flagBool(cmd *cobra.Command, name string, value bool, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

func parseCenter(text string) (goimage.Point, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return goimage.Point{}, fmt.Errorf("invalid --center %q: want x,y", text)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return goimage.Point{}, fmt.Errorf("invalid --center %q: want integer pixels", text)
	}
	return goimage.Pt(x, y), nil
}

func printAttempts(cmd *cobra.Command, res segment.Result) {
	rows := make([][]string, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		size := "-"
		if a.Size > 0 {
			size = strconv.Itoa(a.Size)
		}
		errText := ""
		if a.Err != nil {
			errText = a.Err.Error()
		}
		rows = append(rows, []string{a.Strategy.String(), size, strconv.Itoa(a.Candidates), yesNo(a.Found), errText})
	}
	headers := []string{"Strategy", "Size", "Candidates", "Found", "Error"}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
}

func writePNG(path string, img goimage.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

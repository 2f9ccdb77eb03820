package segment

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// statArea is the CC_STAT_AREA column of connected-component stats.
const statArea = 4

// OtsuMasks segments img without a model: grayscale, global Otsu threshold
// (pixels above it are foreground), morphological closing, then 8-connected
// component labelling. Components of params.MinRegionPixels or fewer pixels
// are dropped; each remaining component becomes one mask.
func OtsuMasks(img image.Image, params OtsuParams) ([]Mask, error) {
	src, err := imageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	// A flat image has no threshold to find.
	minVal, maxVal, _, _ := gocv.MinMaxLoc(gray)
	if minVal == maxVal {
		return nil, nil
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	// Close small gaps so one crystal is not split into fragments
	if params.CloseKernelSize > 1 {
		kernel := gocv.GetStructuringElement(gocv.MorphCross, image.Pt(params.CloseKernelSize, params.CloseKernelSize))
		defer kernel.Close()
		gocv.MorphologyEx(binary, &binary, gocv.MorphClose, kernel)
	}

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()
	n := gocv.ConnectedComponentsWithStats(binary, &labels, &stats, &centroids)

	// Label 0 is the background.
	keep := make(map[int32]int)
	for label := 1; label < n; label++ {
		if int(stats.GetIntAt(label, statArea)) > params.MinRegionPixels {
			keep[int32(label)] = len(keep)
		}
	}
	if len(keep) == 0 {
		return nil, nil
	}

	rows, cols := labels.Rows(), labels.Cols()
	masks := make([]Mask, len(keep))
	for i := range masks {
		masks[i] = NewMask(cols, rows)
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if idx, ok := keep[labels.GetIntAt(y, x)]; ok {
				masks[idx].Pix[y*cols+x] = true
			}
		}
	}

	return masks, nil
}

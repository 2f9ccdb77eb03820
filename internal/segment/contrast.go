package segment

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// EqualizeHistogram returns a contrast-enhanced copy of img. The luma channel
// is histogram-equalized in YCrCb space so colors keep their hue.
func EqualizeHistogram(img image.Image) (image.Image, error) {
	src, err := imageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	gocv.CvtColor(src, &ycrcb, gocv.ColorBGRToYCrCb)

	channels := gocv.Split(ycrcb)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()
	gocv.EqualizeHist(channels[0], &channels[0])
	gocv.Merge(channels, &ycrcb)

	out := gocv.NewMat()
	defer out.Close()
	gocv.CvtColor(ycrcb, &out, gocv.ColorYCrCbToBGR)

	return matToImage(out)
}

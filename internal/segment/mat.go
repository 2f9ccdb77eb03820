package segment

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

var errEmptyImage = errors.New("empty image")

// imageToMat converts a Go image to a BGR gocv.Mat, filling horizontal
// stripes in parallel.
func imageToMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), errEmptyImage
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return gocv.NewMat(), errEmptyImage
	}

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	forEachStripe(height, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
				mat.SetUCharAt(y, x*3+0, uint8(b>>8))
				mat.SetUCharAt(y, x*3+1, uint8(g>>8))
				mat.SetUCharAt(y, x*3+2, uint8(r>>8))
			}
		}
	})

	return mat, nil
}

// matToImage converts a BGR gocv.Mat back to an RGBA image.
func matToImage(mat gocv.Mat) (image.Image, error) {
	if mat.Empty() {
		return nil, errEmptyImage
	}
	if mat.Channels() != 3 {
		return nil, fmt.Errorf("expected 3-channel Mat, got %d channels", mat.Channels())
	}
	h := mat.Rows()
	w := mat.Cols()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := img.Stride

	forEachStripe(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			rowOffset := y * stride
			for x := 0; x < w; x++ {
				pixOffset := rowOffset + x*4
				img.Pix[pixOffset+0] = mat.GetUCharAt(y, x*3+2) // R
				img.Pix[pixOffset+1] = mat.GetUCharAt(y, x*3+1) // G
				img.Pix[pixOffset+2] = mat.GetUCharAt(y, x*3+0) // B
				img.Pix[pixOffset+3] = 255
			}
		}
	})

	return img, nil
}

// forEachStripe splits [0, rows) into one stripe per CPU and runs fn on each
// concurrently.
func forEachStripe(rows int, fn func(yStart, yEnd int)) {
	numWorkers := runtime.NumCPU()
	rowsPerWorker := (rows + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := min(startY+rowsPerWorker, rows)
		if startY >= rows {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			fn(yStart, yEnd)
		}(startY, endY)
	}
	wg.Wait()
}

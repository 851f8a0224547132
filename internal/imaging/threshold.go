package imaging

import "image"

// AdaptiveThreshold binarizes a grayscale image against the mean of each
// pixel's block x block neighborhood, minus bias. The local comparison keeps
// document edges intact under uneven lighting where a single global cutoff
// would wash out half the frame. block must be odd.
func AdaptiveThreshold(src *image.Gray, block, bias int) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	radius := block / 2

	integral := newIntegral(src)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0 := clampInt(x-radius, 0, w-1)
			x1 := clampInt(x+radius, 0, w-1)
			y0 := clampInt(y-radius, 0, h-1)
			y1 := clampInt(y+radius, 0, h-1)
			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			mean := integral.sum(x0, y0, x1, y1) / int64(area)
			if int(src.Pix[y*src.Stride+x]) > int(mean)-bias {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// OtsuThreshold binarizes a grayscale image at the global cutoff that
// maximizes between-class variance of the intensity histogram. Suitable for
// flat, already-rectified surfaces where lighting is roughly uniform.
func OtsuThreshold(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	total := w * h
	if total == 0 {
		return dst
	}

	var hist [256]int
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			hist[src.Pix[row+x]]++
		}
	}

	var sumAll int64
	for i, count := range hist {
		sumAll += int64(i) * int64(count)
	}

	var (
		sumBack    int64
		weightBack int64
		bestVar    float64
		threshold  int
	)
	for t := 0; t < 256; t++ {
		weightBack += int64(hist[t])
		if weightBack == 0 {
			continue
		}
		weightFore := int64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += int64(t) * int64(hist[t])
		meanBack := float64(sumBack) / float64(weightBack)
		meanFore := float64(sumAll-sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		betweenVar := float64(weightBack) * float64(weightFore) * diff * diff
		if betweenVar > bestVar {
			bestVar = betweenVar
			threshold = t
		}
	}

	for y := 0; y < h; y++ {
		row := y * src.Stride
		dstRow := y * dst.Stride
		for x := 0; x < w; x++ {
			if src.Pix[row+x] > uint8(threshold) {
				dst.Pix[dstRow+x] = 255
			}
		}
	}
	return dst
}

// integralImage stores summed-area values for O(1) box sums.
type integralImage struct {
	w, h int
	data []int64
}

func newIntegral(src *image.Gray) *integralImage {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	ii := &integralImage{w: w, h: h, data: make([]int64, (w+1)*(h+1))}
	stride := w + 1
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(src.Pix[y*src.Stride+x])
			ii.data[(y+1)*stride+(x+1)] = ii.data[y*stride+(x+1)] + rowSum
		}
	}
	return ii
}

// sum returns the inclusive box sum over [x0,x1] x [y0,y1].
func (ii *integralImage) sum(x0, y0, x1, y1 int) int64 {
	stride := ii.w + 1
	return ii.data[(y1+1)*stride+(x1+1)] -
		ii.data[y0*stride+(x1+1)] -
		ii.data[(y1+1)*stride+x0] +
		ii.data[y0*stride+x0]
}

package imaging

import (
	"image"
	"sort"
)

// gaussian5 is the separable binomial approximation of a 5-tap Gaussian.
var gaussian5 = [5]int{1, 4, 6, 4, 1}

const gaussian5Sum = 16

// GaussianBlur smooths a grayscale image with a 5x5 Gaussian kernel applied
// as two separable passes. Borders are handled by clamping coordinates.
func GaussianBlur(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return image.NewGray(bounds)
	}

	tmp := image.NewGray(image.Rect(0, 0, w, h))
	dst := image.NewGray(image.Rect(0, 0, w, h))

	// Horizontal pass.
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			sum := 0
			for k := -2; k <= 2; k++ {
				xi := clampInt(x+k, 0, w-1)
				sum += int(src.Pix[row+xi]) * gaussian5[k+2]
			}
			tmp.Pix[y*tmp.Stride+x] = uint8((sum + gaussian5Sum/2) / gaussian5Sum)
		}
	}

	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for k := -2; k <= 2; k++ {
				yi := clampInt(y+k, 0, h-1)
				sum += int(tmp.Pix[yi*tmp.Stride+x]) * gaussian5[k+2]
			}
			dst.Pix[y*dst.Stride+x] = uint8((sum + gaussian5Sum/2) / gaussian5Sum)
		}
	}
	return dst
}

// MedianBlur3 applies a 3x3 median filter, the light denoise step used ahead
// of global binarization on already-rectified documents.
func MedianBlur3(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	var window [9]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				yi := clampInt(y+dy, 0, h-1)
				for dx := -1; dx <= 1; dx++ {
					xi := clampInt(x+dx, 0, w-1)
					window[n] = int(src.Pix[yi*src.Stride+xi])
					n++
				}
			}
			values := window[:]
			sort.Ints(values)
			dst.Pix[y*dst.Stride+x] = uint8(values[4])
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

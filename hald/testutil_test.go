package hald

import "image"

func image_NRGBA_fromPixels(w, h int, f func(x, y int) [3]uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := f(x, y)
			off := img.PixOffset(x, y)
			px := img.Pix[off : off+4 : off+4]
			px[0], px[1], px[2], px[3] = c[0], c[1], c[2], 255
		}
	}
	return img
}

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}

package imaging

// Rotate90 rotates img 90 degrees clockwise, producing a new Image with
// width and height swapped.
func Rotate90(img *Image) *Image {
	bpp := img.ColorType.BytesPerPixel()
	out := New(img.ColorType, img.Height, img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			src := img.PixelOffset(x, y)
			dst := out.PixelOffset(img.Height-1-y, x)
			copy(out.Pix[dst:dst+bpp], img.Pix[src:src+bpp])
		}
	}
	return out
}

// Rotate180 rotates img 180 degrees.
func Rotate180(img *Image) *Image {
	bpp := img.ColorType.BytesPerPixel()
	out := New(img.ColorType, img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			src := img.PixelOffset(x, y)
			dst := out.PixelOffset(img.Width-1-x, img.Height-1-y)
			copy(out.Pix[dst:dst+bpp], img.Pix[src:src+bpp])
		}
	}
	return out
}

// Rotate270 rotates img 90 degrees counter-clockwise (270 clockwise).
func Rotate270(img *Image) *Image {
	bpp := img.ColorType.BytesPerPixel()
	out := New(img.ColorType, img.Height, img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			src := img.PixelOffset(x, y)
			dst := out.PixelOffset(y, img.Width-1-x)
			copy(out.Pix[dst:dst+bpp], img.Pix[src:src+bpp])
		}
	}
	return out
}

// Resize resamples img to the given dimensions using nearest-neighbor
// sampling: the simplest of the filter kernels the pack's resampler
// supports, and enough to block-align a decoded image before JPEG
// encoding.
func Resize(img *Image, newWidth, newHeight int) *Image {
	bpp := img.ColorType.BytesPerPixel()
	out := New(img.ColorType, newWidth, newHeight)

	for y := 0; y < newHeight; y++ {
		srcY := y * img.Height / newHeight
		if srcY >= img.Height {
			srcY = img.Height - 1
		}
		for x := 0; x < newWidth; x++ {
			srcX := x * img.Width / newWidth
			if srcX >= img.Width {
				srcX = img.Width - 1
			}
			src := img.PixelOffset(srcX, srcY)
			dst := out.PixelOffset(x, y)
			copy(out.Pix[dst:dst+bpp], img.Pix[src:src+bpp])
		}
	}
	return out
}

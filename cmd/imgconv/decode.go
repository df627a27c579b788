package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pixelflow/imgcodec/imaging"
	"github.com/pixelflow/imgcodec/png"
	"github.com/pixelflow/imgcodec/ppm"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <in.png> <out.ppm>",
	Short: "Decode a PNG file to PPM/PGM",
	Args:  cobra.ExactArgs(2),
	RunE:  runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], resolveOutputPath(args[1])

	in, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "imgconv decode: open input")
	}
	defer in.Close()

	img, err := png.Decode(in)
	if err != nil {
		return errors.Wrap(err, "imgconv decode: decode PNG")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "imgconv decode: create output")
	}
	defer out.Close()

	log.WithFields(logrus.Fields{
		"in": inPath, "out": outPath, "width": img.Width, "height": img.Height,
	}).Info("decoding PNG")

	if err := ppm.Encode(out, dropAlpha(img)); err != nil {
		return errors.Wrap(err, "imgconv decode: write PPM")
	}
	return nil
}

// dropAlpha returns img unchanged if it has no alpha channel, or a copy
// with the alpha channel stripped: PPM/PGM have no representation for it.
func dropAlpha(img *imaging.Image) *imaging.Image {
	var dst imaging.ColorType
	switch img.ColorType {
	case imaging.RGBA8:
		dst = imaging.RGB8
	case imaging.GrayA8:
		dst = imaging.Gray8
	default:
		return img
	}

	srcBpp := img.ColorType.BytesPerPixel()
	dstBpp := dst.BytesPerPixel()
	out := imaging.New(dst, img.Width, img.Height)
	for i, n := 0, img.Width*img.Height; i < n; i++ {
		copy(out.Pix[i*dstBpp:(i+1)*dstBpp], img.Pix[i*srcBpp:i*srcBpp+dstBpp])
	}
	return out
}

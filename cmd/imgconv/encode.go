package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pixelflow/imgcodec"
	"github.com/pixelflow/imgcodec/jpeg"
	"github.com/pixelflow/imgcodec/ppm"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <in.ppm> <out.jpg>",
	Short: "Encode a PPM/PGM file to baseline JPEG",
	Args:  cobra.ExactArgs(2),
	RunE:  runEncode,
}

func runEncode(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], resolveOutputPath(args[1])

	in, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "imgconv encode: open input")
	}
	defer in.Close()

	img, err := ppm.Decode(in)
	if err != nil {
		return errors.Wrap(err, "imgconv encode: decode PPM")
	}

	colorType, err := imgcodec.JPEGColorType(img.ColorType)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "imgconv encode: create output")
	}
	defer out.Close()

	enc := jpeg.NewEncoder(out)
	table := viper.GetString("quality-table")
	if table == "chroma" {
		enc.SetGrayQuantTable(true)
	}

	log.WithFields(logrus.Fields{
		"in": inPath, "out": outPath, "width": img.Width, "height": img.Height, "qualityTable": table,
	}).Info("encoding JPEG")

	if err := enc.Encode(img.Pix, img.Width, img.Height, colorType); err != nil {
		return errors.Wrap(err, "imgconv encode: write JPEG")
	}
	return nil
}

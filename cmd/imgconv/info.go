package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pixelflow/imgcodec"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print an image's format, dimensions, and color type",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "imgconv info: open input")
	}
	defer f.Close()

	cfg, format, err := imgcodec.DecodeConfig(f)
	if err != nil {
		return errors.Wrap(err, "imgconv info: read header")
	}

	log.WithFields(logrus.Fields{
		"file": path, "format": format, "width": cfg.Width, "height": cfg.Height, "colorType": cfg.ColorType,
	}).Info("image info")
	return nil
}

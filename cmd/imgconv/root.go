// Command imgconv is a thin CLI wrapper around the imgcodec library: it
// reads and writes files and reports results, with no image-processing
// logic of its own.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logrus.WithField("package", "cmd/imgconv")

var (
	cfgFile          string
	flagQualityTable string
	flagOutputDir    string
)

var rootCmd = &cobra.Command{
	Use:   "imgconv",
	Short: "Convert between PPM, PNG, and JPEG images",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .imgconv.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagQualityTable, "quality-table", "", "default quantization table: luma or chroma")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "default directory for output files")

	viper.BindPFlag("quality-table", rootCmd.PersistentFlags().Lookup("quality-table"))
	viper.BindPFlag("output-dir", rootCmd.PersistentFlags().Lookup("output-dir"))

	rootCmd.AddCommand(encodeCmd, decodeCmd, infoCmd)
}

// initConfig loads an optional .imgconv.yaml from the current directory or
// $HOME. CLI flags always take precedence over values it sets, since they
// are bound to the flags rather than read independently.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".imgconv")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("loaded config file")
	}
}

// resolveOutputPath joins dir (from viper) with the requested output
// filename, unless out is an absolute path (starts with a path separator).
func resolveOutputPath(out string) string {
	dir := viper.GetString("output-dir")
	if dir == "" || os.IsPathSeparator(out[0]) {
		return out
	}
	return dir + string(os.PathSeparator) + out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("imgconv failed")
		os.Exit(1)
	}
}

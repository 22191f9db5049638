/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "magstripe",
	Short: "Magstripe - magnetic stripe bit-stream decoder",
	Long: `Magstripe decodes raw magnetic-stripe card reads into text. It takes
the captured bit stream and tries candidate track formats against it until
one validates end to end: start sentinel, per-character parity, end
sentinel, and the trailing LRC checksum.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log decode attempts per format")
}

// buildLogger returns a development logger when --verbose is set, otherwise
// a no-op logger.
func buildLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

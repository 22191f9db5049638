/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/swipekit/magstripe/pkg/bitstream"
	"github.com/swipekit/magstripe/pkg/format"
)

// formatsCmd represents the formats command
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the built-in formats",
	Long:  `List every built-in format with its encoding parameters, in trial order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Bits/Char", "Bit Order", "Parity", "Inverted", "Start", "End"})

		for _, f := range format.All() {
			spec, err := f.Resolve()
			if err != nil {
				return err
			}
			table.Append([]string{
				spec.Name,
				fmt.Sprintf("%d", spec.BitsPerChar),
				bitOrderName(spec.BitOrder),
				spec.Parity.String(),
				fmt.Sprintf("%v", spec.Inverted),
				sentinelName(spec.StartSentinel),
				sentinelName(spec.EndSentinel),
			})
		}
		table.Render()
		return nil
	},
}

func bitOrderName(o bitstream.BitOrder) string {
	if o == bitstream.MSBFirst {
		return "msb"
	}
	return "lsb"
}

func sentinelName(s *format.Sentinel) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%0*b", s.Bits, s.Pattern)
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

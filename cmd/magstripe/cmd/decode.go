/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swipekit/magstripe/pkg/bitstream"
	"github.com/swipekit/magstripe/pkg/decode"
	"github.com/swipekit/magstripe/pkg/format"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <bytes>",
	Short: "Decode a captured bit stream",
	Long: `Decode a captured bit stream into record text. The bytes are given as
a comma- or space-separated list, optionally bracketed; values may be
decimal or 0x-prefixed hex.

Examples:
  magstripe decode "[255, 255, 255, 151, 222, 246]" --bits 42
  magstripe decode 0xFF 0x97 0xDE -f track2-inverted
  magstripe decode --spec badge.yaml "[1, 164, 8, 97, 225, 0]" -b 47`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseBytes(strings.Join(args, " "))
		if err != nil {
			return err
		}

		bits, err := cmd.Flags().GetInt("bits")
		if err != nil {
			return err
		}
		if bits == 0 {
			bits = len(data) * 8
		}
		stream, err := bitstream.New(data, bits)
		if err != nil {
			return err
		}

		formats, err := gatherFormats(cmd)
		if err != nil {
			return err
		}
		logger, err := buildLogger(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		maxNoise, err := cmd.Flags().GetInt("max-noise")
		if err != nil {
			return err
		}
		opts := []decode.Option{
			decode.WithLogger(logger),
			decode.WithMaxLeadingNoise(maxNoise),
		}
		if lenient, _ := cmd.Flags().GetBool("lenient"); lenient {
			opts = append(opts, decode.Lenient())
		}

		out, err := decode.NewDecoder(formats, opts...).Decode(stream)
		if err != nil {
			return err
		}

		fmt.Printf("format: %s\n", out.Format.Name())
		fmt.Printf("data:   %s\n", out.Data)
		fmt.Printf("lrc:    %s\n", lrcStatus(out))
		return nil
	},
}

func lrcStatus(out *decode.Output) string {
	if out.LRCValid {
		return "ok"
	}
	return "not validated"
}

// gatherFormats assembles the candidate list in trial order: the custom spec
// file first if given, then named formats, then the full built-in set when
// --all-formats is set. With no selection the standard set is used.
func gatherFormats(cmd *cobra.Command) ([]format.Format, error) {
	var formats []format.Format

	specPath, err := cmd.Flags().GetString("spec")
	if err != nil {
		return nil, err
	}
	if specPath != "" {
		spec, err := format.LoadSpec(specPath)
		if err != nil {
			return nil, err
		}
		formats = append(formats, format.Custom(spec))
	}

	names, err := cmd.Flags().GetStringArray("format")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		f, err := format.Parse(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}

	if all, _ := cmd.Flags().GetBool("all-formats"); all {
		formats = append(formats, format.All()...)
	}
	if len(formats) == 0 {
		formats = format.Standard()
	}
	return formats, nil
}

// parseBytes parses a byte list like "[255, 0x3A, 0]" or "255 58 0".
func parseBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no bytes given")
	}
	data := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseUint(tok, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q: %w", tok, err)
		}
		data = append(data, byte(v))
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().IntP("bits", "b", 0, "Number of valid bits in the stream (default: all)")
	decodeCmd.Flags().StringArrayP("format", "f", nil, "Named format to try, in order (repeatable)")
	decodeCmd.Flags().BoolP("all-formats", "a", false, "Try every built-in format")
	decodeCmd.Flags().String("spec", "", "Path to a custom format spec (YAML)")
	decodeCmd.Flags().Bool("lenient", false, "Accept records with a missing or wrong LRC")
	decodeCmd.Flags().Int("max-noise", decode.DefaultMaxLeadingNoiseBits,
		"Leading noise bits to search for the start sentinel")
}

// SPDX-License-Identifier: GPL-3.0-or-later

// Command nbtdump prints the tree of an NBT file.
//
// Usage:
//
//	nbtdump [--network] [--compression auto|gzip|zlib|none] FILE
//
// FILE may be "-" to read the standard input. By default the root is
// expected to carry a name, as in level.dat and player files. Use
// --network for the nameless root of NBT values sent on the wire.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nbtdump: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		opts    dumpOptions
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "nbtdump FILE",
		Short: "Print the tree of an NBT file",
		Long: `Print the tree of an NBT file.

The file may be gzip or zlib compressed, which is detected from its
first bytes unless --compression says otherwise. Use "-" to read the
standard input.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			input := cmd.InOrStdin()
			if args[0] != "-" {
				filep, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer filep.Close()
				input = filep
			}
			return dump(cmd.OutOrStdout(), input, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Network, "network", false, "the root value has no name")
	cmd.Flags().StringVar(&opts.Compression, "compression", "auto", "input compression: auto, gzip, zlib or none")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log decoding details to stderr")
	return cmd
}

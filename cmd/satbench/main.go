// Copyright 2025 The go-recfilter Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command satbench runs the block-parallel recursive filter on an image,
// runs the sequential reference on the same input and reports the maximum
// absolute and relative error between the two.
//
// Usage:
//
//	satbench --width 1024 --height 1024
//	satbench --weights 0.36,-1,0.36 --border reflect --extent 1 --symmetric
//	satbench --input photo.png --reps 100 --scan tree
//	satbench --config scenario.yaml --verbose
//
// With one repetition the configuration and both errors are printed. With
// more repetitions only the two errors are printed, so the output can be
// fed to a timing harness.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-recfilter/rf"
)

func newRootCmd() *cobra.Command {
	sc := DefaultScenario()
	var (
		configPath string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:           "satbench",
		Short:         "Compare the block-parallel summed-area table against the reference",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				rf.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			run := sc
			if configPath != "" {
				file, err := LoadScenario(configPath)
				if err != nil {
					return err
				}
				run = file.Override(sc, cmd.Flags())
			}
			return Run(run, cmd.OutOrStdout())
		},
	}
	sc.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file; flags given on the command line take precedence")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

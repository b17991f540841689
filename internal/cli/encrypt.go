// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptit.
//
// go-cryptit is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeremyhahn/go-cryptit/pkg/storage"
	"github.com/spf13/cobra"
)

// encryptCmd encrypts a file and splits its key into shares
var encryptCmd = &cobra.Command{
	Use:   "encrypt <file>",
	Short: "Encrypt a file and split its key into shares",
	Long: `Encrypt a file with AES-256-GCM under a fresh random key, then split
the key into n shares of which any k recover it. The protected container
is written next to the input (or to --output-dir) with a .cryptit
extension, and each share is written to its own file.

The key is destroyed after the split: without k shares the file cannot
be recovered.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		// Get flags, falling back to config file defaults
		threshold, _ := cmd.Flags().GetInt("threshold")
		shares, _ := cmd.Flags().GetInt("shares")
		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.DefaultThreshold()
		}
		if !cmd.Flags().Changed("shares") {
			shares = cfg.DefaultShares()
		}
		noShareFiles, _ := cmd.Flags().GetBool("no-share-files")

		printVerbose("Encrypting %s with %d-of-%d share scheme", path, threshold, shares)

		// #nosec G304 - Input file path is provided by the user
		plaintext, err := os.ReadFile(path)
		if err != nil {
			handleError(fmt.Errorf("failed to read input file: %w", err))
			return
		}

		name := filepath.Base(path)
		pipeline := cfg.NewPipeline()
		containerBytes, shareList, err := pipeline.Encrypt(plaintext, name, threshold, shares)
		if err != nil {
			handleError(err)
			return
		}

		outDir := cfg.ResolveOutputDir(path)
		backend, err := cfg.CreateStorage(outDir)
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = backend.Close() }()

		if err := storage.SaveContainer(backend, name, containerBytes); err != nil {
			handleError(fmt.Errorf("failed to write container: %w", err))
			return
		}

		report := &EncryptReport{
			Container: filepath.Join(outDir, storage.ContainerKey(name)),
			Threshold: threshold,
			Shares:    shares,
			ShareList: make([]ShareEntry, 0, len(shareList)),
		}

		for _, share := range shareList {
			encoded, err := share.EncodeString()
			if err != nil {
				handleError(fmt.Errorf("failed to encode share %d: %w", share.ID, err))
				return
			}

			entry := ShareEntry{ID: share.ID, Text: encoded}
			if !noShareFiles {
				if err := storage.SaveShare(backend, name, share.ID, []byte(encoded+"\n")); err != nil {
					handleError(fmt.Errorf("failed to write share %d: %w", share.ID, err))
					return
				}
				entry.Path = filepath.Join(outDir, storage.ShareKey(name, share.ID))
			}
			report.ShareList = append(report.ShareList, entry)
		}

		printVerbose("Wrote container and %d shares to %s", len(shareList), outDir)

		if err := printer.PrintEncryptReport(report); err != nil {
			handleError(err)
		}
	},
}

func init() {
	encryptCmd.Flags().IntP("threshold", "k", 3, "Shares required to recover the key")
	encryptCmd.Flags().IntP("shares", "n", 5, "Total shares to generate")
	encryptCmd.Flags().Bool("no-share-files", false, "Print shares instead of writing share files")
}

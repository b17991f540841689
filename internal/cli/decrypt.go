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
	"strings"

	"github.com/jeremyhahn/go-cryptit/pkg/container"
	"github.com/jeremyhahn/go-cryptit/pkg/crypto/secretsharing"
	"github.com/spf13/cobra"
)

// decryptCmd recovers a protected file from its container and shares
var decryptCmd = &cobra.Command{
	Use:   "decrypt <container>",
	Short: "Recover a protected file from its container and shares",
	Long: `Reconstruct the encryption key from the supplied shares and decrypt
the container. At least the threshold number of shares recorded at
encryption time must be supplied, in any order.

Shares are passed with repeated --share flags or collected from a file
with --shares-file (one share per line, # comments allowed). The
recovered file is written under its original name; if that name is
taken, a _decrypted suffix is added.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		containerPath := args[0]
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		inputs, err := gatherShareInputs(cmd)
		if err != nil {
			handleError(err)
			return
		}
		if len(inputs) == 0 {
			handleError(fmt.Errorf("no shares given: use --share or --shares-file"))
			return
		}

		shares := make([]secretsharing.Share, 0, len(inputs))
		for _, input := range inputs {
			share, err := secretsharing.DecodeShareString(input.Text)
			if err != nil {
				handleError(fmt.Errorf("%s: %w", input.Source, err))
				return
			}
			shares = append(shares, share)
		}

		printVerbose("Decrypting %s with %d shares", containerPath, len(shares))

		// #nosec G304 - Container path is provided by the user
		containerBytes, err := os.ReadFile(containerPath)
		if err != nil {
			handleError(fmt.Errorf("failed to read container: %w", err))
			return
		}

		// Parse the header up front for the stored filename. The pipeline
		// re-validates everything during decryption.
		parsed, err := container.Unmarshal(containerBytes)
		if err != nil {
			handleError(err)
			return
		}

		pipeline := cfg.NewPipeline()
		plaintext, err := pipeline.Decrypt(containerBytes, shares)
		if err != nil {
			handleError(err)
			return
		}

		toStdout, _ := cmd.Flags().GetBool("stdout")
		if toStdout {
			if _, err := os.Stdout.Write(plaintext); err != nil {
				handleError(fmt.Errorf("failed to write plaintext: %w", err))
			}
			return
		}

		// The stored filename is untrusted input; keep only its base name so
		// a crafted container cannot write outside the output directory.
		name := filepath.Base(parsed.Filename)
		if name == "." || name == string(filepath.Separator) {
			name = "recovered"
		}

		outDir := cfg.ResolveOutputDir(containerPath)
		backend, err := cfg.CreateStorage(outDir)
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = backend.Close() }()

		exists, err := backend.Exists(name)
		if err != nil {
			handleError(err)
			return
		}
		if exists {
			name = decryptedName(name)
			printVerbose("Original name taken, writing to %s", name)
		}

		if err := backend.Put(name, plaintext, nil); err != nil {
			handleError(fmt.Errorf("failed to write recovered file: %w", err))
			return
		}

		report := &DecryptReport{
			Output:   filepath.Join(outDir, name),
			Filename: parsed.Filename,
			Size:     parsed.PlaintextSize,
		}
		if err := printer.PrintDecryptReport(report); err != nil {
			handleError(err)
		}
	},
}

// shareInput is a share string paired with where it came from, so errors
// can point at the offending flag or line.
type shareInput struct {
	Source string
	Text   string
}

// gatherShareInputs collects share strings from --share flags and the
// optional --shares-file.
func gatherShareInputs(cmd *cobra.Command) ([]shareInput, error) {
	var inputs []shareInput

	flagShares, _ := cmd.Flags().GetStringArray("share")
	for i, text := range flagShares {
		inputs = append(inputs, shareInput{
			Source: fmt.Sprintf("share %d", i+1),
			Text:   strings.TrimSpace(text),
		})
	}

	sharesFile, _ := cmd.Flags().GetString("shares-file")
	if sharesFile != "" {
		// #nosec G304 - Shares file path is provided by the user
		data, err := os.ReadFile(sharesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read shares file: %w", err)
		}
		for i, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			inputs = append(inputs, shareInput{
				Source: fmt.Sprintf("%s:%d", sharesFile, i+1),
				Text:   line,
			})
		}
	}

	return inputs, nil
}

// decryptedName inserts a _decrypted suffix before the file extension
func decryptedName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_decrypted" + ext
}

func init() {
	decryptCmd.Flags().StringArray("share", nil, "Base64 share (repeat for each share)")
	decryptCmd.Flags().String("shares-file", "", "File containing one base64 share per line")
	decryptCmd.Flags().Bool("stdout", false, "Write the recovered plaintext to stdout")
}

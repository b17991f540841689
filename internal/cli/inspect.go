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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/jeremyhahn/go-cryptit/pkg/container"
	"github.com/jeremyhahn/go-cryptit/pkg/types"
	"github.com/spf13/cobra"
)

// inspectCmd shows container header fields without decrypting
var inspectCmd = &cobra.Command{
	Use:   "inspect <container>",
	Short: "Show container header fields without decrypting",
	Long: `Parse a protected container and print its header: format version,
algorithm, share scheme, original filename, and payload sizes.

No shares are needed and nothing is decrypted. Header fields are not
covered by the authentication tag, so treat them as informational.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		printVerbose("Inspecting container %s", path)

		// #nosec G304 - Container path is provided by the user
		data, err := os.ReadFile(path)
		if err != nil {
			handleError(fmt.Errorf("failed to read container: %w", err))
			return
		}

		c, err := container.Unmarshal(data)
		if err != nil {
			handleError(err)
			return
		}

		info := &ContainerInfo{
			Path:              path,
			TotalSize:         len(data),
			Version:           types.ContainerVersion,
			Algorithm:         c.Algorithm.String(),
			Threshold:         c.Threshold,
			Shares:            c.Shares,
			Filename:          c.Filename,
			PlaintextSize:     c.PlaintextSize,
			PlaintextChecksum: hex.EncodeToString(c.PlaintextChecksum),
			NonceSize:         len(c.Nonce),
			TagSize:           len(c.Tag),
		}

		if err := printer.PrintContainerInfo(info); err != nil {
			handleError(err)
		}
	},
}

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
	"errors"
	"fmt"
	"os"

	"github.com/jeremyhahn/go-cryptit/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-cryptit/pkg/types"
	"github.com/spf13/cobra"
)

// verifyCmd checks shares offline without touching a container
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify shares without decrypting anything",
	Long: `Check that shares decode cleanly and their embedded checksums match.
Verification is offline: no container is read and no key material is
reconstructed. A corrupt share is reported without revealing anything
about the others.

Exits non-zero if any share fails verification.`,
	Run: func(cmd *cobra.Command, args []string) {
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

		statuses := make([]ShareStatus, 0, len(inputs))
		failures := 0
		for _, input := range inputs {
			status := verifyShare(input)
			if status.Status != "ok" {
				failures++
			}
			statuses = append(statuses, status)
		}

		if err := printer.PrintShareStatuses(statuses); err != nil {
			handleError(err)
			return
		}

		if failures > 0 {
			os.Exit(1)
		}
	},
}

// verifyShare classifies a single share input as ok, corrupt, or invalid
func verifyShare(input shareInput) ShareStatus {
	status := ShareStatus{Source: input.Source}

	share, err := secretsharing.DecodeShareString(input.Text)
	if err != nil {
		status.Status = "invalid"
		status.Detail = err.Error()
		return status
	}

	status.ID = share.ID
	if err := share.Verify(); err != nil {
		if errors.Is(err, types.ErrCorruptShare) {
			status.Status = "corrupt"
		} else {
			status.Status = "invalid"
		}
		status.Detail = err.Error()
		return status
	}

	status.Status = "ok"
	return status
}

func init() {
	verifyCmd.Flags().StringArray("share", nil, "Base64 share (repeat for each share)")
	verifyCmd.Flags().String("shares-file", "", "File containing one base64 share per line")
}

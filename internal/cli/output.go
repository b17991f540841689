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
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// ShareEntry describes one generated share
type ShareEntry struct {
	ID   byte
	Path string // share file path, empty when not written to disk
	Text string // base64 encoding of the share
}

// EncryptReport summarizes a completed encrypt operation
type EncryptReport struct {
	Container string
	Threshold int
	Shares    int
	ShareList []ShareEntry
}

// PrintEncryptReport prints the artifacts produced by an encrypt operation
func (p *Printer) PrintEncryptReport(r *EncryptReport) error {
	switch p.format {
	case OutputFormatJSON:
		shareList := make([]map[string]interface{}, len(r.ShareList))
		for i, s := range r.ShareList {
			entry := map[string]interface{}{
				"id":    s.ID,
				"share": s.Text,
			}
			if s.Path != "" {
				entry["path"] = s.Path
			}
			shareList[i] = entry
		}
		return p.printJSON(map[string]interface{}{
			"container":  r.Container,
			"threshold":  r.Threshold,
			"shares":     r.Shares,
			"share_list": shareList,
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "Container: %s\n\n", r.Container)
		fmt.Fprintf(p.writer, "%-4s %-40s %s\n", "ID", "FILE", "SHARE")
		fmt.Fprintln(p.writer, strings.Repeat("-", 100))
		for _, s := range r.ShareList {
			fmt.Fprintf(p.writer, "%-4d %-40s %s\n", s.ID, s.Path, s.Text)
		}
		fmt.Fprintf(p.writer, "\nAny %d of %d shares recover the file.\n", r.Threshold, r.Shares)
		return nil
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Protected file written to: %s\n", r.Container)
		fmt.Fprintf(p.writer, "Generated %d shares (any %d recover the key):\n", r.Shares, r.Threshold)
		for _, s := range r.ShareList {
			if s.Path != "" {
				fmt.Fprintf(p.writer, "  Share %d (%s): %s\n", s.ID, s.Path, s.Text)
			} else {
				fmt.Fprintf(p.writer, "  Share %d: %s\n", s.ID, s.Text)
			}
		}
		fmt.Fprintln(p.writer, "\nDistribute the shares to separate holders. The encryption key")
		fmt.Fprintln(p.writer, "was destroyed and cannot be recovered without them.")
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// DecryptReport summarizes a completed decrypt operation
type DecryptReport struct {
	Output   string
	Filename string
	Size     uint64
}

// PrintDecryptReport prints the result of a decrypt operation
func (p *Printer) PrintDecryptReport(r *DecryptReport) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"output":   r.Output,
			"filename": r.Filename,
			"size":     r.Size,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Recovered %s (%d bytes) to: %s\n", r.Filename, r.Size, r.Output)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// ContainerInfo is the structural header summary produced by inspect
type ContainerInfo struct {
	Path              string
	TotalSize         int
	Version           byte
	Algorithm         string
	Threshold         byte
	Shares            byte
	Filename          string
	PlaintextSize     uint64
	PlaintextChecksum string // hex encoded
	NonceSize         int
	TagSize           int
}

// PrintContainerInfo prints container header fields without decrypting
func (p *Printer) PrintContainerInfo(info *ContainerInfo) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"path":               info.Path,
			"total_size":         info.TotalSize,
			"version":            info.Version,
			"algorithm":          info.Algorithm,
			"threshold":          info.Threshold,
			"shares":             info.Shares,
			"filename":           info.Filename,
			"plaintext_size":     info.PlaintextSize,
			"plaintext_checksum": info.PlaintextChecksum,
			"nonce_size":         info.NonceSize,
			"tag_size":           info.TagSize,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Container: %s\n", info.Path)
		fmt.Fprintf(p.writer, "  Version:        %d\n", info.Version)
		fmt.Fprintf(p.writer, "  Algorithm:      %s\n", info.Algorithm)
		fmt.Fprintf(p.writer, "  Scheme:         %d-of-%d\n", info.Threshold, info.Shares)
		fmt.Fprintf(p.writer, "  Filename:       %s\n", info.Filename)
		fmt.Fprintf(p.writer, "  Plaintext Size: %d bytes\n", info.PlaintextSize)
		fmt.Fprintf(p.writer, "  Checksum:       %s\n", info.PlaintextChecksum)
		fmt.Fprintf(p.writer, "  Nonce Size:     %d bytes\n", info.NonceSize)
		fmt.Fprintf(p.writer, "  Tag Size:       %d bytes\n", info.TagSize)
		fmt.Fprintf(p.writer, "  Total Size:     %d bytes\n", info.TotalSize)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// ShareStatus is the verification result for a single share
type ShareStatus struct {
	Source string // where the share came from (flag position or file)
	ID     byte   // holder id, zero when the share could not be decoded
	Status string // ok, corrupt, or invalid
	Detail string // error detail when not ok
}

// PrintShareStatuses prints per-share verification results
func (p *Printer) PrintShareStatuses(statuses []ShareStatus) error {
	valid := 0
	for _, s := range statuses {
		if s.Status == "ok" {
			valid++
		}
	}

	switch p.format {
	case OutputFormatJSON:
		list := make([]map[string]interface{}, len(statuses))
		for i, s := range statuses {
			entry := map[string]interface{}{
				"source": s.Source,
				"status": s.Status,
			}
			if s.ID != 0 {
				entry["id"] = s.ID
			}
			if s.Detail != "" {
				entry["detail"] = s.Detail
			}
			list[i] = entry
		}
		return p.printJSON(map[string]interface{}{
			"shares":  list,
			"valid":   valid,
			"invalid": len(statuses) - valid,
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "%-20s %-4s %-8s %s\n", "SOURCE", "ID", "STATUS", "DETAIL")
		fmt.Fprintln(p.writer, strings.Repeat("-", 72))
		for _, s := range statuses {
			id := "-"
			if s.ID != 0 {
				id = fmt.Sprintf("%d", s.ID)
			}
			fmt.Fprintf(p.writer, "%-20s %-4s %-8s %s\n", s.Source, id, s.Status, s.Detail)
		}
		return nil
	case OutputFormatText:
		for _, s := range statuses {
			if s.Status == "ok" {
				fmt.Fprintf(p.writer, "  %s: ok (holder %d)\n", s.Source, s.ID)
			} else {
				fmt.Fprintf(p.writer, "  %s: %s (%s)\n", s.Source, s.Status, s.Detail)
			}
		}
		fmt.Fprintf(p.writer, "%d of %d shares valid\n", valid, len(statuses))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

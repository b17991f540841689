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
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func testEncryptReport() *EncryptReport {
	return &EncryptReport{
		Container: "out/report.pdf.cryptit",
		Threshold: 2,
		Shares:    3,
		ShareList: []ShareEntry{
			{ID: 1, Path: "out/report.pdf.share-001", Text: "AAAA"},
			{ID: 2, Path: "out/report.pdf.share-002", Text: "BBBB"},
			{ID: 3, Path: "out/report.pdf.share-003", Text: "CCCC"},
		},
	}
}

func TestPrintEncryptReport_Text(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	if err := printer.PrintEncryptReport(testEncryptReport()); err != nil {
		t.Fatalf("PrintEncryptReport() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"out/report.pdf.cryptit",
		"any 2 recover",
		"Share 1 (out/report.pdf.share-001): AAAA",
		"Share 3 (out/report.pdf.share-003): CCCC",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintEncryptReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)

	if err := printer.PrintEncryptReport(testEncryptReport()); err != nil {
		t.Fatalf("PrintEncryptReport() error = %v", err)
	}

	var decoded struct {
		Container string `json:"container"`
		Threshold int    `json:"threshold"`
		Shares    int    `json:"shares"`
		ShareList []struct {
			ID    byte   `json:"id"`
			Path  string `json:"path"`
			Share string `json:"share"`
		} `json:"share_list"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if decoded.Container != "out/report.pdf.cryptit" {
		t.Errorf("container = %q, want out/report.pdf.cryptit", decoded.Container)
	}
	if decoded.Threshold != 2 || decoded.Shares != 3 {
		t.Errorf("scheme = %d-of-%d, want 2-of-3", decoded.Threshold, decoded.Shares)
	}
	if len(decoded.ShareList) != 3 {
		t.Fatalf("share_list has %d entries, want 3", len(decoded.ShareList))
	}
	if decoded.ShareList[0].ID != 1 || decoded.ShareList[0].Share != "AAAA" {
		t.Errorf("share_list[0] = %+v", decoded.ShareList[0])
	}
}

func TestPrintEncryptReport_Table(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("table", &buf)

	if err := printer.PrintEncryptReport(testEncryptReport()); err != nil {
		t.Fatalf("PrintEncryptReport() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "SHARE") {
		t.Errorf("table output missing header:\n%s", out)
	}
	if !strings.Contains(out, "Any 2 of 3 shares recover the file.") {
		t.Errorf("table output missing scheme summary:\n%s", out)
	}
}

func TestPrintDecryptReport(t *testing.T) {
	report := &DecryptReport{
		Output:   "out/report.pdf",
		Filename: "report.pdf",
		Size:     1024,
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewPrinter("text", &buf)
		if err := printer.PrintDecryptReport(report); err != nil {
			t.Fatalf("PrintDecryptReport() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "report.pdf") || !strings.Contains(out, "1024 bytes") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewPrinter("json", &buf)
		if err := printer.PrintDecryptReport(report); err != nil {
			t.Fatalf("PrintDecryptReport() error = %v", err)
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["output"] != "out/report.pdf" {
			t.Errorf("output = %v, want out/report.pdf", decoded["output"])
		}
		if decoded["size"] != float64(1024) {
			t.Errorf("size = %v, want 1024", decoded["size"])
		}
	})
}

func TestPrintContainerInfo(t *testing.T) {
	info := &ContainerInfo{
		Path:              "report.pdf.cryptit",
		TotalSize:         1234,
		Version:           1,
		Algorithm:         "AES-256-GCM",
		Threshold:         2,
		Shares:            3,
		Filename:          "report.pdf",
		PlaintextSize:     1100,
		PlaintextChecksum: "deadbeef",
		NonceSize:         12,
		TagSize:           16,
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewPrinter("text", &buf)
		if err := printer.PrintContainerInfo(info); err != nil {
			t.Fatalf("PrintContainerInfo() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"AES-256-GCM", "2-of-3", "report.pdf", "1100 bytes", "deadbeef"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewPrinter("json", &buf)
		if err := printer.PrintContainerInfo(info); err != nil {
			t.Fatalf("PrintContainerInfo() error = %v", err)
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["algorithm"] != "AES-256-GCM" {
			t.Errorf("algorithm = %v", decoded["algorithm"])
		}
		if decoded["plaintext_checksum"] != "deadbeef" {
			t.Errorf("plaintext_checksum = %v", decoded["plaintext_checksum"])
		}
	})
}

func TestPrintShareStatuses(t *testing.T) {
	statuses := []ShareStatus{
		{Source: "share 1", ID: 1, Status: "ok"},
		{Source: "share 2", ID: 2, Status: "corrupt", Detail: "corrupt share"},
		{Source: "shares.txt:3", Status: "invalid", Detail: "invalid share"},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewPrinter("text", &buf)
		if err := printer.PrintShareStatuses(statuses); err != nil {
			t.Fatalf("PrintShareStatuses() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "1 of 3 shares valid") {
			t.Errorf("output missing summary:\n%s", out)
		}
		if !strings.Contains(out, "share 2: corrupt") {
			t.Errorf("output missing corrupt share:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewPrinter("json", &buf)
		if err := printer.PrintShareStatuses(statuses); err != nil {
			t.Fatalf("PrintShareStatuses() error = %v", err)
		}
		var decoded struct {
			Valid   int `json:"valid"`
			Invalid int `json:"invalid"`
			Shares  []struct {
				Source string `json:"source"`
				Status string `json:"status"`
			} `json:"shares"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Valid != 1 || decoded.Invalid != 2 {
			t.Errorf("valid/invalid = %d/%d, want 1/2", decoded.Valid, decoded.Invalid)
		}
		if len(decoded.Shares) != 3 {
			t.Errorf("shares has %d entries, want 3", len(decoded.Shares))
		}
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewPrinter("table", &buf)
		if err := printer.PrintShareStatuses(statuses); err != nil {
			t.Fatalf("PrintShareStatuses() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "SOURCE") || !strings.Contains(out, "STATUS") {
			t.Errorf("table output missing header:\n%s", out)
		}
	})
}

func TestPrintSuccess(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)

	if err := printer.PrintSuccess("done"); err != nil {
		t.Fatalf("PrintSuccess() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["status"] != "success" || decoded["message"] != "done" {
		t.Errorf("unexpected JSON: %v", decoded)
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	if err := printer.PrintError(errors.New("boom")); err != nil {
		t.Fatalf("PrintError() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Error: boom") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestPrinterUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("xml", &buf)

	if err := printer.PrintSuccess("done"); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := printer.PrintEncryptReport(testEncryptReport()); err == nil {
		t.Error("expected error for unknown format")
	}
}

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxCut/internal/engine"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "box.pdf")

	if err := ExportPDF(path, buildTestResult(t)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 1000 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	if err := ExportPDF(path, &engine.Result{}); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("no file should be written for an empty result")
	}
}

func TestWritePDF_HasTwoPages(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, buildTestResult(t)); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF, starts with %q", data[:min(8, len(data))])
	}
	if n := bytes.Count(data, []byte("/Type /Page\n")); n != 2 {
		t.Errorf("expected 2 pages, got %d", n)
	}
}

func TestWritePDF_WithSplits(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, buildSplitResult(t)); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("PDF output is empty")
	}
}

func TestWritePDF_Deterministic(t *testing.T) {
	res := buildTestResult(t)
	var a, b bytes.Buffer
	if err := WritePDF(&a, res); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	if err := WritePDF(&b, res); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Fatal("PDF output is empty")
	}
}

package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, testResults(t)); err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
	if !bytes.Contains(buf.Bytes(), []byte("%%EOF")) {
		t.Errorf("output is missing the PDF trailer")
	}
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.pdf")
	if err := WritePDF(path, testResults(t)); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("file does not start with a PDF header")
	}
}

func TestWritePDFLongSchedule(t *testing.T) {
	results := testResults(t)[:1]
	records := results[0].Schedule.Records
	for len(results[0].Schedule.Records) < 120 {
		results[0].Schedule.Records = append(results[0].Schedule.Records, records...)
	}

	var buf bytes.Buffer
	if err := RenderPDF(&buf, results); err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
}

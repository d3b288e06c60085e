package parrec_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"parbids/internal/logging"
	"parbids/internal/parrec"
	"parbids/internal/services"
	"parbids/internal/testsupport"
)

func TestParseExtractsHeaderAndImageRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.PAR")
	testsupport.WritePAR(t, path, testsupport.ScanSpec{
		Patient:      "Blackford",
		Protocol:     "WIP T1W 3D TFE SENSE",
		Technique:    "T1TFE",
		ScanDuration: 187.2,
	})

	parser := parrec.NewParser(logging.NewNop())
	attrs, err := parser.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got, _ := attrs.String("ProtocolName"); got != "WIP T1W 3D TFE SENSE" {
		t.Fatalf("ProtocolName = %q", got)
	}
	if got, _ := attrs.String("PatientName"); got != "Blackford" {
		t.Fatalf("PatientName = %q", got)
	}
	if got, _ := attrs.Float("ScanDuration"); got != 187.2 {
		t.Fatalf("ScanDuration = %v", got)
	}
	if got, _ := attrs.Int("AcquisitionNumber"); got != 3 {
		t.Fatalf("AcquisitionNumber = %v", got)
	}
	if got, _ := attrs.Floats("FieldOfView"); len(got) != 3 || got[0] != 240 {
		t.Fatalf("FieldOfView = %v", got)
	}
	if got, _ := attrs.Ints("ScanResolution"); len(got) != 2 || got[0] != 240 || got[1] != 222 {
		t.Fatalf("ScanResolution = %v", got)
	}

	// Representative values from the first image-table row.
	if got, _ := attrs.Float("SliceThickness"); got != 1.0 {
		t.Fatalf("SliceThickness = %v", got)
	}
	if got, _ := attrs.Float("EchoTime"); got != 3.8 {
		t.Fatalf("EchoTime = %v", got)
	}
	if got, _ := attrs.Float("FlipAngle"); got != 8.0 {
		t.Fatalf("FlipAngle = %v", got)
	}
	spacing, _ := attrs.Floats("PixelSpacing")
	if len(spacing) != 2 || spacing[0] != 0.9375 || spacing[1] != 0.9375 {
		t.Fatalf("PixelSpacing = %v", spacing)
	}
}

func TestParseWithoutImageRowOmitsRepresentativeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.PAR")
	testsupport.WritePAR(t, path, testsupport.ScanSpec{
		Protocol:     "Survey",
		OmitImageRow: true,
	})

	parser := parrec.NewParser(logging.NewNop())
	attrs, err := parser.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, name := range []string{"SliceThickness", "EchoTime", "FlipAngle", "PixelSpacing"} {
		if attrs.Has(name) {
			t.Fatalf("expected %s to be absent without an image row", name)
		}
	}
}

func TestParseUnknownKeysPreservedVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.PAR")
	content := ".    Protocol name                      :   Survey\n" +
		".    Dynamic scan      :   0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	parser := parrec.NewParser(logging.NewNop())
	attrs, err := parser.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, ok := attrs.String("Dynamic scan"); !ok || got != "0" {
		t.Fatalf("Dynamic scan = %q, ok=%v", got, ok)
	}
}

func TestParseRejectsFilesWithoutHeaderLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.PAR")
	if err := os.WriteFile(path, []byte("# comment only\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	parser := parrec.NewParser(logging.NewNop())
	if _, err := parser.Parse(path); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParseMissingFile(t *testing.T) {
	parser := parrec.NewParser(logging.NewNop())
	if _, err := parser.Parse(filepath.Join(t.TempDir(), "nope.PAR")); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

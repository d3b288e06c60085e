package sidecar_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parbids/internal/sidecar"
)

func TestRecordPreservesInsertionOrder(t *testing.T) {
	record := sidecar.NewRecord()
	record.Set("Zulu", 1)
	record.Set("Alpha", 2)
	record.Set("Mike", 3)

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Zulu":1,"Alpha":2,"Mike":3}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}

func TestRecordSetReplacesInPlace(t *testing.T) {
	record := sidecar.NewRecord()
	record.Set("EchoTime", 3.8)
	record.Set("FlipAngle", 8.0)
	record.Set("EchoTime", 7.6)

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"EchoTime":7.6,"FlipAngle":8}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
	if record.Len() != 2 {
		t.Fatalf("len = %d, want 2", record.Len())
	}
}

func TestRecordWriteFileCreatesDirectories(t *testing.T) {
	record := sidecar.NewRecord()
	record.Set("SubjectID", "Blackford")

	path := filepath.Join(t.TempDir(), "sub-Blackford", "ses-01", "anat", "scan.json")
	if err := record.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "  \"SubjectID\": \"Blackford\"") {
		t.Fatalf("unexpected content:\n%s", text)
	}
	if !strings.HasSuffix(text, "\n") {
		t.Fatal("expected trailing newline")
	}
}

package sidecar_test

import (
	"reflect"
	"testing"
	"time"

	"parbids/internal/bids"
	"parbids/internal/logging"
	"parbids/internal/parrec"
	"parbids/internal/sidecar"
)

var mergeIdentity = bids.Identity{
	Subject:  "Blackford",
	Session:  "01",
	Suffix:   "T1w",
	DataType: bids.DataTypeAnatomical,
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 14, 10, 32, 17, 0, time.UTC)
}

func TestMergeSetsProvenanceFirst(t *testing.T) {
	merger := sidecar.NewMerger(logging.NewNop()).WithClock(fixedClock)
	record := merger.Merge(parrec.Attributes{}, parrec.Attributes{}, mergeIdentity,
		[]string{"/raw/scan.PAR", "/raw/scan.REC"})

	fields := record.Fields()
	wantOrder := []string{
		"ConversionSoftware", "ConversionSoftwareVersion", "ConversionDate",
		"SourceFormat", "SourceFiles", "SubjectID", "BIDSDataType",
	}
	if len(fields) != len(wantOrder) {
		t.Fatalf("fields = %d, want %d", len(fields), len(wantOrder))
	}
	for i, name := range wantOrder {
		if fields[i].Name != name {
			t.Fatalf("field %d = %q, want %q", i, fields[i].Name, name)
		}
	}

	if got, _ := record.Get("SourceFormat"); got != "Philips PAR/REC" {
		t.Fatalf("SourceFormat = %v", got)
	}
	if got, _ := record.Get("ConversionDate"); got != "2024-03-14T10:32:17Z" {
		t.Fatalf("ConversionDate = %v", got)
	}
	if got, _ := record.Get("SourceFiles"); !reflect.DeepEqual(got, []string{"/raw/scan.PAR", "/raw/scan.REC"}) {
		t.Fatalf("SourceFiles = %v", got)
	}
	if got, _ := record.Get("BIDSDataType"); got != "anat" {
		t.Fatalf("BIDSDataType = %v", got)
	}
}

func TestMergeProvenanceCannotBeOverridden(t *testing.T) {
	merger := sidecar.NewMerger(logging.NewNop()).WithClock(fixedClock)
	raw := parrec.Attributes{"SourceFormat": "spoofed"}
	aux := parrec.Attributes{"ConversionSoftware": "someone-else"}

	record := merger.Merge(raw, aux, mergeIdentity, nil)
	if got, _ := record.Get("SourceFormat"); got != "Philips PAR/REC" {
		t.Fatalf("SourceFormat = %v", got)
	}
	if got, _ := record.Get("ConversionSoftware"); got != "parbids" {
		t.Fatalf("ConversionSoftware = %v", got)
	}
}

func TestMergeAuxiliaryOverridesRaw(t *testing.T) {
	merger := sidecar.NewMerger(logging.NewNop()).WithClock(fixedClock)
	raw := parrec.Attributes{"EchoTime": 3.8, "FlipAngle": 8.0}
	aux := parrec.Attributes{"Series_Info.Echo Time": "4.6"}

	record := merger.Merge(raw, aux, mergeIdentity, nil)
	if got, _ := record.Get("EchoTime"); got != 4.6 {
		t.Fatalf("EchoTime = %v, want auxiliary 4.6", got)
	}
	if got, _ := record.Get("FlipAngle"); got != 8.0 {
		t.Fatalf("FlipAngle = %v", got)
	}
}

func TestMergeRenamesScanDuration(t *testing.T) {
	merger := sidecar.NewMerger(logging.NewNop()).WithClock(fixedClock)
	raw := parrec.Attributes{"ScanDuration": 187.2}

	record := merger.Merge(raw, parrec.Attributes{}, mergeIdentity, nil)
	if record.Has("ScanDuration") {
		t.Fatal("ScanDuration should be renamed")
	}
	if got, _ := record.Get("ScanDurationSec"); got != 187.2 {
		t.Fatalf("ScanDurationSec = %v", got)
	}
}

func TestMergePassthroughKeysAreSorted(t *testing.T) {
	merger := sidecar.NewMerger(logging.NewNop()).WithClock(fixedClock)
	raw := parrec.Attributes{"Zulu extra": "z", "Alpha extra": "a"}
	aux := parrec.Attributes{"Series_Info.Gradient mode": "maximum"}

	record := merger.Merge(raw, aux, mergeIdentity, nil)

	names := make([]string, 0, record.Len())
	for _, field := range record.Fields() {
		names = append(names, field.Name)
	}
	indexOf := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		t.Fatalf("field %q missing from %v", name, names)
		return -1
	}
	if indexOf("Alpha extra") > indexOf("Zulu extra") {
		t.Fatal("raw passthrough fields out of order")
	}
	if indexOf("Series_Info.Gradient mode") < indexOf("Zulu extra") {
		t.Fatal("auxiliary passthrough should follow raw passthrough")
	}
}

// Two merges of the same inputs differ only in ConversionDate.
func TestMergeIsDeterministic(t *testing.T) {
	raw := parrec.Attributes{"EchoTime": 3.8, "ProtocolName": "WIP T1W 3D TFE SENSE"}
	aux := parrec.Attributes{"Series_Info.Flip Angle": "8"}

	first := sidecar.NewMerger(logging.NewNop()).WithClock(fixedClock).
		Merge(raw, aux, mergeIdentity, []string{"/raw/scan.PAR"})
	second := sidecar.NewMerger(logging.NewNop()).
		WithClock(func() time.Time { return fixedClock().Add(time.Hour) }).
		Merge(raw, aux, mergeIdentity, []string{"/raw/scan.PAR"})

	firstFields := first.Fields()
	secondFields := second.Fields()
	if len(firstFields) != len(secondFields) {
		t.Fatalf("field counts differ: %d vs %d", len(firstFields), len(secondFields))
	}
	for i := range firstFields {
		if firstFields[i].Name != secondFields[i].Name {
			t.Fatalf("field %d name differs: %q vs %q", i, firstFields[i].Name, secondFields[i].Name)
		}
		if firstFields[i].Name == "ConversionDate" {
			continue
		}
		if !reflect.DeepEqual(firstFields[i].Value, secondFields[i].Value) {
			t.Fatalf("field %q differs: %v vs %v", firstFields[i].Name, firstFields[i].Value, secondFields[i].Value)
		}
	}
}

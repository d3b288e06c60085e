package bids_test

import (
	"testing"

	"parbids/internal/bids"
	"parbids/internal/logging"
	"parbids/internal/parrec"
)

var testTasks = map[string]string{
	"anticipation": "anticipation",
	"nback":        "nback",
}

func classify(t *testing.T, protocol, technique string, ledger *bids.Ledger) bids.Identity {
	t.Helper()
	classifier := bids.NewClassifier(testTasks, logging.NewNop())
	attrs := parrec.Attributes{"ProtocolName": protocol}
	if technique != "" {
		attrs["Technique"] = technique
	}
	identity, _ := classifier.Classify(attrs, "Blackford", "01", ledger)
	return identity
}

func TestClassifyRuleTable(t *testing.T) {
	tests := []struct {
		name      string
		protocol  string
		technique string
		suffix    string
		dataType  bids.DataType
		task      string
	}{
		{"t1 anatomical", "WIP T1W 3D TFE SENSE", "T1TFE", "T1w", bids.DataTypeAnatomical, ""},
		{"t2 anatomical", "T2W FLAIR", "TSE", "T2w", bids.DataTypeAnatomical, ""},
		{"resting functional", "Resting State fMRI", "FEEPI", "bold", bids.DataTypeFunctional, "rest"},
		{"funct marker", "Functional run A", "", "bold", bids.DataTypeFunctional, "rest"},
		{"configured task", "Anticipation fMRI run1", "FEEPI", "bold", bids.DataTypeFunctional, "anticipation"},
		{"epi test", "test_epi check", "", "bold", bids.DataTypeFunctional, "test"},
		{"field map", "B0map shimming", "", "phasediff", bids.DataTypeFieldMap, ""},
		{"survey", "Survey 3 planes", "", "scout", bids.DataTypeAnatomical, ""},
		{"technique only", "", "T1TFE", "T1w", bids.DataTypeAnatomical, ""},
		{"fallback", "Diffusion DTI 32dir", "DwiSE", "diffusiondti32dir", bids.DataTypeOther, ""},
		{"empty fallback", "", "", "unknown", bids.DataTypeOther, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			identity := classify(t, tc.protocol, tc.technique, bids.NewLedger())
			if identity.Suffix != tc.suffix {
				t.Fatalf("suffix = %q, want %q", identity.Suffix, tc.suffix)
			}
			if identity.DataType != tc.dataType {
				t.Fatalf("data type = %q, want %q", identity.DataType, tc.dataType)
			}
			if identity.Task != tc.task {
				t.Fatalf("task = %q, want %q", identity.Task, tc.task)
			}
		})
	}
}

// A protocol carrying two markers resolves by table order, not by marker
// position in the name.
func TestClassifyPrecedence(t *testing.T) {
	identity := classify(t, "Survey T1 quick", "", bids.NewLedger())
	if identity.Suffix != "T1w" || identity.DataType != bids.DataTypeAnatomical {
		t.Fatalf("got %q/%q, want T1w/anat", identity.Suffix, identity.DataType)
	}
}

func TestClassifyDerivesEntities(t *testing.T) {
	identity := classify(t, "WIP T1W 3D TFE SENSE", "T1TFE", bids.NewLedger())
	if identity.Subject != "Blackford" {
		t.Fatalf("subject = %q", identity.Subject)
	}
	if identity.Session != "01" {
		t.Fatalf("session = %q", identity.Session)
	}
	if identity.Acquisition != "wipt1w3dtfesense" {
		t.Fatalf("acquisition = %q", identity.Acquisition)
	}
	if identity.Run != 0 {
		t.Fatalf("run = %d, want 0 for a first occurrence", identity.Run)
	}
}

func TestClassifyLongestTaskMarkerWins(t *testing.T) {
	classifier := bids.NewClassifier(map[string]string{
		"anticipation":      "anticipation",
		"anticipation_long": "anticipationlong",
	}, logging.NewNop())
	identity, _ := classifier.Classify(
		parrec.Attributes{"ProtocolName": "fMRI anticipation_long run"},
		"S1", "01", bids.NewLedger(),
	)
	if identity.Task != "anticipationlong" {
		t.Fatalf("task = %q", identity.Task)
	}
}

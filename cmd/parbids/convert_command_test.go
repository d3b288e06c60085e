package main

import (
	"bytes"
	"strings"
	"testing"

	"parbids/internal/journal"
	"parbids/internal/workflow"
)

func TestRenderSummaryPlainOutput(t *testing.T) {
	summary := &workflow.Summary{RunID: "run-1"}
	summary.Results = []workflow.Result{
		{
			Group:      workflow.ScanGroup{Subject: "Blackford", Name: "scan1"},
			Status:     journal.StatusSucceeded,
			OutputPath: "/bids/sub-Blackford/ses-01/anat/sub-Blackford_ses-01_T1w.nii.gz",
		},
		{
			Group:  workflow.ScanGroup{Subject: "Blackford", Name: "scan2"},
			Status: journal.StatusSkipped,
			Reason: "unsupported geometry",
		},
	}
	summary.Succeeded = 1
	summary.Skipped = 1

	var buf bytes.Buffer
	renderSummary(&buf, summary)
	out := buf.String()

	// A non-terminal writer gets tab-separated rows, not a box-drawn table.
	if strings.Contains(out, "│") {
		t.Fatalf("unexpected table border in %q", out)
	}
	if !strings.Contains(out, "scan1\tsucceeded\t/bids/") {
		t.Fatalf("succeeded row missing:\n%s", out)
	}
	if !strings.Contains(out, "scan2\tskipped\tunsupported geometry") {
		t.Fatalf("skipped row missing:\n%s", out)
	}
	if !strings.Contains(out, "run run-1: 1 succeeded, 1 skipped, 0 failed") {
		t.Fatalf("totals line missing:\n%s", out)
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable(
		[]string{"Status", "Count"},
		[][]string{{"succeeded", "3"}, {"failed", "1"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "succeeded") || !strings.Contains(out, "Count") {
		t.Fatalf("table missing content:\n%s", out)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"convert", "config", "runs"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("command %q not registered", name)
		}
	}
}

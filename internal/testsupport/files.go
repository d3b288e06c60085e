package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// ScanSpec describes the PAR fixture a test needs.
type ScanSpec struct {
	Patient      string
	Protocol     string
	Technique    string
	ScanDuration float64
	// OmitImageRow drops the image table so representative per-image
	// values stay absent.
	OmitImageRow bool
}

// WritePAR writes a minimal but structurally faithful PAR parameter file.
func WritePAR(t testing.TB, path string, spec ScanSpec) {
	t.Helper()

	if spec.Patient == "" {
		spec.Patient = "TestPatient"
	}
	if spec.Technique == "" {
		spec.Technique = "T1TFE"
	}
	if spec.ScanDuration == 0 {
		spec.ScanDuration = 187.2
	}

	var b strings.Builder
	b.WriteString("# === DATA DESCRIPTION FILE ======================================================\n")
	b.WriteString("# CAUTION - Investigational device.\n")
	b.WriteString("# === GENERAL INFORMATION ========================================================\n")
	fmt.Fprintf(&b, ".    Patient name                       :   %s\n", spec.Patient)
	fmt.Fprintf(&b, ".    Examination name                   :   Brain\n")
	fmt.Fprintf(&b, ".    Protocol name                      :   %s\n", spec.Protocol)
	fmt.Fprintf(&b, ".    Examination date/time              :   2024.03.14 / 10:32:17\n")
	fmt.Fprintf(&b, ".    Acquisition nr                     :   3\n")
	fmt.Fprintf(&b, ".    Reconstruction nr                  :   1\n")
	fmt.Fprintf(&b, ".    Scan Duration [sec]                :   %.1f\n", spec.ScanDuration)
	fmt.Fprintf(&b, ".    Max. number of slices/locations    :   160\n")
	fmt.Fprintf(&b, ".    Patient position                   :   Head First Supine\n")
	fmt.Fprintf(&b, ".    Technique                          :   %s\n", spec.Technique)
	fmt.Fprintf(&b, ".    Scan resolution  (x, y)            :   240  222\n")
	fmt.Fprintf(&b, ".    Scan mode                          :   3D\n")
	fmt.Fprintf(&b, ".    Repetition time [ms]               :   8.2\n")
	fmt.Fprintf(&b, ".    FOV (ap,fh,rl) [mm]                :   240.000  160.000  240.000\n")
	fmt.Fprintf(&b, ".    Water Fat shift [pixels]           :   2.268\n")
	fmt.Fprintf(&b, ".    Angulation midslice(ap,fh,rl)[degr]:   -2.305  0.000  0.000\n")
	fmt.Fprintf(&b, ".    Off Centre midslice(ap,fh,rl) [mm] :   18.204  -14.680  1.572\n")
	b.WriteString("# === IMAGE INFORMATION ==========================================================\n")
	if !spec.OmitImageRow {
		b.WriteString(imageRow() + "\n")
	}

	writeFixture(t, path, b.String())
}

// imageRow builds one V4.2 image-table row with recognizable values in the
// representative columns: slice thickness 1.0, gap 0.0, pixel spacing
// 0.9375 x 0.9375, echo time 3.8, flip angle 8.
func imageRow() string {
	fields := make([]string, 41)
	for i := range fields {
		fields[i] = "0"
	}
	fields[0] = "1"
	fields[22] = "1.000"
	fields[23] = "0.000"
	fields[28] = "0.9375"
	fields[29] = "0.9375"
	fields[30] = "3.80"
	fields[35] = "8.00"
	return strings.Join(fields, "  ")
}

// WriteXML writes an extended-metadata fixture. Keys are attribute names and
// nest under Series_Info the way scanner exports do.
func WriteXML(t testing.TB, path string, attrs map[string]string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("<PRIDE_V5>\n  <Series_Info>\n")
	for _, name := range sortedNames(attrs) {
		fmt.Fprintf(&b, "    <Attribute Name=%q Tag=\"0x0\" Type=\"String\">%s</Attribute>\n", name, attrs[name])
	}
	b.WriteString("  </Series_Info>\n</PRIDE_V5>\n")

	writeFixture(t, path, b.String())
}

// WriteV41 writes a secondary parameter file fixture.
func WriteV41(t testing.TB, path string, entries map[string]string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("# Secondary parameters\n")
	for _, key := range sortedNames(entries) {
		fmt.Fprintf(&b, ".    %s  :  %s\n", key, entries[key])
	}

	writeFixture(t, path, b.String())
}

// WriteREC writes a small placeholder image-data file.
func WriteREC(t testing.TB, path string) {
	t.Helper()
	writeFixture(t, path, strings.Repeat("\x00", 64))
}

func writeFixture(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package parrec

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FilenameInfo carries the scan identity encoded in a Philips export
// filename: <patient>_<exam>_<series>_<acq>_<time>_(<protocol>).PAR
type FilenameInfo struct {
	PatientID         string
	ExamNumber        string
	SeriesNumber      string
	AcquisitionNumber string
	Time              string
	ProtocolName      string
}

var exportNamePattern = regexp.MustCompile(`^(.+?)_(\d+)_(\d+)_(\d+)_(\d+\.\d+\.\d+)_\((.+?)\)$`)

// ParseFilename extracts scan identity from a PAR file name. The second
// return value reports whether the name followed the export convention.
func ParseFilename(path string) (FilenameInfo, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".par") {
		return FilenameInfo{}, false
	}
	stem := strings.TrimSuffix(base, ext)

	match := exportNamePattern.FindStringSubmatch(stem)
	if match == nil {
		return FilenameInfo{}, false
	}
	return FilenameInfo{
		PatientID:         match[1],
		ExamNumber:        match[2],
		SeriesNumber:      match[3],
		AcquisitionNumber: match[4],
		Time:              match[5],
		ProtocolName:      match[6],
	}, true
}

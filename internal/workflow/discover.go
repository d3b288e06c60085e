package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"parbids/internal/services"
)

// ScanGroup is one conversion unit: a PAR parameter file plus whichever
// sibling files (REC image data, XML and V41 metadata) exist next to it.
type ScanGroup struct {
	Subject string
	Name    string
	PARPath string
	RECPath string
	XMLPath string
	V41Path string
}

// Sources returns the input files that actually exist for the group, PAR
// first, for sidecar provenance.
func (g ScanGroup) Sources() []string {
	sources := []string{g.PARPath}
	for _, path := range []string{g.RECPath, g.XMLPath, g.V41Path} {
		if path != "" {
			sources = append(sources, path)
		}
	}
	return sources
}

// scanSubdir is the per-subject directory Philips exports land in.
const scanSubdir = "XMLPARREC"

// DiscoverScanGroups walks <dataDir>/<subject>/XMLPARREC for PAR files and
// assembles a group per PAR, in subject order then filename order. When
// subjects is non-empty only those subject directories are visited, and a
// requested subject without a directory is an error.
func DiscoverScanGroups(dataDir string, subjects []string) ([]ScanGroup, error) {
	requested, err := subjectDirs(dataDir, subjects)
	if err != nil {
		return nil, err
	}

	var groups []ScanGroup
	for _, subject := range requested {
		scanDir := filepath.Join(dataDir, subject, scanSubdir)
		entries, err := os.ReadDir(scanDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, services.Wrap(services.ErrConfiguration, "discover", subject, "read scan directory", err)
		}

		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".par") {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			parPath := filepath.Join(scanDir, name)
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			groups = append(groups, ScanGroup{
				Subject: subject,
				Name:    stem,
				PARPath: parPath,
				RECPath: findSibling(scanDir, stem, ".REC"),
				XMLPath: findSibling(scanDir, stem, ".XML"),
				V41Path: findSibling(scanDir, stem, ".V41"),
			})
		}
	}
	return groups, nil
}

func subjectDirs(dataDir string, subjects []string) ([]string, error) {
	if len(subjects) > 0 {
		requested := append([]string(nil), subjects...)
		sort.Strings(requested)
		for _, subject := range requested {
			info, err := os.Stat(filepath.Join(dataDir, subject))
			if err != nil || !info.IsDir() {
				return nil, services.Wrap(services.ErrConfiguration, "discover", subject, "subject directory not found", nil)
			}
		}
		return requested, nil
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "discover", "", fmt.Sprintf("read data directory %s", dataDir), err)
	}
	var found []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			found = append(found, entry.Name())
		}
	}
	sort.Strings(found)
	return found, nil
}

// findSibling locates a companion file for the PAR stem, tolerating either
// case for the extension since exports vary.
func findSibling(dir, stem, upperExt string) string {
	for _, ext := range []string{upperExt, strings.ToLower(upperExt)} {
		candidate := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

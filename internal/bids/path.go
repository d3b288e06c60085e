package bids

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// ImageExtension is the two-part compressed volumetric extension.
	ImageExtension = ".nii.gz"
	// SidecarExtension is the metadata sidecar extension.
	SidecarExtension = ".json"
)

// Path locates one scan's artifacts inside the dataset: a directory keyed by
// subject/session/category and the shared basename of the image and sidecar.
type Path struct {
	Directory string
	Basename  string
}

// Base returns the extensionless artifact path.
func (p Path) Base() string {
	return filepath.Join(p.Directory, p.Basename)
}

// Image returns the compressed volumetric image path.
func (p Path) Image() string {
	return p.Base() + ImageExtension
}

// Sidecar returns the JSON sidecar path.
func (p Path) Sidecar() string {
	return p.Base() + SidecarExtension
}

// BuildPath composes the canonical dataset location for an identity. The
// same identity always yields the same path, which keeps re-runs idempotent.
func BuildPath(root string, id Identity) Path {
	subject := SanitizeLabel(id.Subject)
	session := SanitizeLabel(id.Session)

	var name strings.Builder
	name.WriteString("sub-")
	name.WriteString(subject)
	name.WriteString("_ses-")
	name.WriteString(session)
	if acq := SanitizeLabel(id.Acquisition); acq != "" {
		name.WriteString("_acq-")
		name.WriteString(acq)
	}
	if task := SanitizeLabel(id.Task); task != "" {
		name.WriteString("_task-")
		name.WriteString(task)
	}
	if id.Run > 0 {
		name.WriteString("_run-")
		name.WriteString(strconv.Itoa(id.Run))
	}
	name.WriteString("_")
	name.WriteString(id.Suffix)

	return Path{
		Directory: filepath.Join(root, "sub-"+subject, "ses-"+session, id.DataType.Directory()),
		Basename:  name.String(),
	}
}

// stripMarks removes combining marks after canonical decomposition, so
// accented characters survive sanitization as their base letters.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeLabel reduces a label to the characters BIDS permits inside entity
// values: ASCII letters and digits only.
func SanitizeLabel(label string) string {
	folded, _, err := transform.String(stripMarks, label)
	if err != nil {
		folded = label
	}
	var out strings.Builder
	out.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return out.String()
}

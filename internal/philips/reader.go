package philips

import (
	"log/slog"
	"os"

	"parbids/internal/logging"
	"parbids/internal/parrec"
)

// Reader extracts auxiliary attributes from extended-metadata files.
type Reader struct {
	logger *slog.Logger
}

// NewReader constructs a Reader. A nil logger disables warnings.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logging.NewComponentLogger(logger, "philips")}
}

// Read collects auxiliary attributes from the XML extended-metadata file and
// the V41 secondary parameter file. Either path may be empty or point at a
// missing file. When both sources define a key, the XML value wins: the
// extended metadata is the more authoritative export.
func (r *Reader) Read(xmlPath, v41Path string) parrec.Attributes {
	merged := make(parrec.Attributes)
	for key, value := range r.readV41(v41Path) {
		merged[key] = value
	}
	for key, value := range r.readXML(xmlPath) {
		merged[key] = value
	}
	return merged
}

func (r *Reader) sourceExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

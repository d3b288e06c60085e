package philips

import (
	"bufio"
	"os"
	"strings"

	"parbids/internal/logging"
	"parbids/internal/parrec"
)

// readV41 extracts key/value pairs from the secondary parameter file. The
// format mirrors the PAR header: dotted or plain "key : value" lines with
// anything else ignored. Keys are preserved verbatim.
func (r *Reader) readV41(path string) parrec.Attributes {
	attrs := make(parrec.Attributes)
	if !r.sourceExists(path) {
		return attrs
	}

	file, err := os.Open(path)
	if err != nil {
		r.logger.Warn("secondary parameter file unreadable", logging.String("path", path), logging.Error(err))
		return attrs
	}
	defer file.Close()

	pairs := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimLeft(line, ". \t")
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.Join(strings.Fields(key), " ")
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if !attrs.Has(key) {
			attrs[key] = value
			pairs++
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("secondary parameter file truncated", logging.String("path", path), logging.Error(err))
		return make(parrec.Attributes)
	}
	if pairs == 0 {
		r.logger.Warn("secondary parameter file carried no key/value pairs", logging.String("path", path))
	}
	return attrs
}

package parrec

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"parbids/internal/logging"
	"parbids/internal/services"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindFloat
	kindInt
	kindFloats
	kindInts
)

type headerField struct {
	name string
	kind fieldKind
}

// headerVocabulary maps normalized PAR general-information keys to canonical
// attribute names and types. Keys outside the vocabulary are preserved
// verbatim as strings.
var headerVocabulary = map[string]headerField{
	"Patient name":                        {name: "PatientName", kind: kindString},
	"Examination name":                    {name: "ExaminationName", kind: kindString},
	"Protocol name":                       {name: "ProtocolName", kind: kindString},
	"Examination date/time":               {name: "ExaminationDateTime", kind: kindString},
	"Series Type":                         {name: "SeriesType", kind: kindString},
	"Acquisition nr":                      {name: "AcquisitionNumber", kind: kindInt},
	"Reconstruction nr":                   {name: "ReconstructionNumber", kind: kindInt},
	"Scan Duration [sec]":                 {name: "ScanDuration", kind: kindFloat},
	"Max. number of cardiac phases":       {name: "MaxCardiacPhases", kind: kindInt},
	"Max. number of echoes":               {name: "MaxEchoes", kind: kindInt},
	"Max. number of slices/locations":     {name: "MaxSlices", kind: kindInt},
	"Max. number of dynamics":             {name: "MaxDynamics", kind: kindInt},
	"Patient position":                    {name: "PatientPosition", kind: kindString},
	"Preparation direction":               {name: "PreparationDirection", kind: kindString},
	"Technique":                           {name: "Technique", kind: kindString},
	"Scan resolution (x, y)":              {name: "ScanResolution", kind: kindInts},
	"Scan mode":                           {name: "ScanMode", kind: kindString},
	"Repetition time [ms]":                {name: "RepetitionTime", kind: kindFloat},
	"Repetition time [msec]":              {name: "RepetitionTime", kind: kindFloat},
	"Echo time [ms]":                      {name: "EchoTime", kind: kindFloat},
	"FOV (ap,fh,rl) [mm]":                 {name: "FieldOfView", kind: kindFloats},
	"Water Fat shift [pixels]":            {name: "WaterFatShift", kind: kindFloat},
	"Angulation midslice(ap,fh,rl)[degr]": {name: "Angulation", kind: kindFloats},
	"Off Centre midslice(ap,fh,rl) [mm]":  {name: "OffCentre", kind: kindFloats},
}

// Image-table column indexes for the representative first row (PAR V4.x
// layout). Rows shorter than an index simply omit that attribute.
const (
	colSliceThickness = 22
	colSliceGap       = 23
	colPixelSpacingX  = 28
	colPixelSpacingY  = 29
	colEchoTime       = 30
	colFlipAngle      = 35
)

// Parser reads PAR parameter files.
type Parser struct {
	logger *slog.Logger
}

// NewParser constructs a Parser. A nil logger disables warnings.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logging.NewComponentLogger(logger, "parrec")}
}

// Parse reads the parameter file at path and extracts its attributes. It
// fails when the file cannot be opened or no key/value header lines exist;
// malformed image-table rows are skipped with a warning.
func (p *Parser) Parse(path string) (Attributes, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "parse", "open parameter file", path, err)
	}
	defer file.Close()

	attrs := make(Attributes)
	headerLines := 0
	var firstRow []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue
		case strings.HasPrefix(trimmed, "."):
			if p.parseHeaderLine(trimmed, attrs, lineNo) {
				headerLines++
			}
		default:
			if firstRow != nil {
				continue
			}
			fields := strings.Fields(trimmed)
			if !numericRow(fields) {
				p.logger.Warn("skipping malformed image row",
					logging.String("path", path),
					logging.Int("line", lineNo),
				)
				continue
			}
			firstRow = fields
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrParse, "parse", "read parameter file", path, err)
	}

	if headerLines == 0 {
		return nil, services.Wrap(services.ErrParse, "parse", "read header",
			fmt.Sprintf("no key/value header lines found in %s", path), nil)
	}

	if firstRow != nil {
		p.applyImageRow(attrs, firstRow)
	}

	return attrs, nil
}

// parseHeaderLine handles one ".  key  :  value" line. Returns true when the
// line carried the mandatory delimiter.
func (p *Parser) parseHeaderLine(line string, attrs Attributes, lineNo int) bool {
	body := strings.TrimLeft(line, ". \t")
	key, rawValue, found := strings.Cut(body, ":")
	if !found {
		return false
	}
	key = normalizeKey(key)
	rawValue = strings.TrimSpace(rawValue)
	if key == "" {
		return false
	}

	field, known := headerVocabulary[key]
	if !known {
		attrs[key] = rawValue
		return true
	}
	if rawValue == "" {
		return true
	}

	value, err := parseTyped(rawValue, field.kind)
	if err != nil {
		p.logger.Warn("unparsable header value",
			logging.String("key", key),
			logging.String("value", rawValue),
			logging.Int("line", lineNo),
			logging.Error(err),
		)
		return true
	}
	attrs[field.name] = value
	return true
}

func (p *Parser) applyImageRow(attrs Attributes, fields []string) {
	setFloat := func(name string, idx int) {
		if attrs.Has(name) || idx >= len(fields) {
			return
		}
		if value, err := strconv.ParseFloat(fields[idx], 64); err == nil {
			attrs[name] = value
		}
	}
	setFloat("SliceThickness", colSliceThickness)
	setFloat("SliceGap", colSliceGap)
	setFloat("EchoTime", colEchoTime)
	setFloat("FlipAngle", colFlipAngle)

	if !attrs.Has("PixelSpacing") && colPixelSpacingY < len(fields) {
		x, errX := strconv.ParseFloat(fields[colPixelSpacingX], 64)
		y, errY := strconv.ParseFloat(fields[colPixelSpacingY], 64)
		if errX == nil && errY == nil {
			attrs["PixelSpacing"] = []float64{x, y}
		}
	}
}

func parseTyped(raw string, kind fieldKind) (any, error) {
	switch kind {
	case kindString:
		return raw, nil
	case kindFloat:
		return strconv.ParseFloat(raw, 64)
	case kindInt:
		return strconv.Atoi(raw)
	case kindFloats:
		fields := strings.Fields(raw)
		values := make([]float64, 0, len(fields))
		for _, field := range fields {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return values, nil
	case kindInts:
		fields := strings.Fields(raw)
		values := make([]int, 0, len(fields))
		for _, field := range fields {
			value, err := strconv.Atoi(field)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return values, nil
	}
	return nil, fmt.Errorf("unknown field kind %d", kind)
}

// normalizeKey trims the key and collapses interior whitespace runs so
// vocabulary lookups tolerate the PAR format's column alignment.
func normalizeKey(key string) string {
	return strings.Join(strings.Fields(key), " ")
}

func numericRow(fields []string) bool {
	if len(fields) < 10 {
		return false
	}
	for _, field := range fields {
		if _, err := strconv.ParseFloat(field, 64); err != nil {
			return false
		}
	}
	return true
}

package sidecar

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"parbids/internal/bids"
	"parbids/internal/logging"
	"parbids/internal/parrec"
)

const (
	// ToolName identifies the converter in sidecar provenance.
	ToolName = "parbids"
	// ToolVersion is stamped alongside the tool name.
	ToolVersion = "1.0.0"
	// SourceFormatTag names the input format in sidecar provenance.
	SourceFormatTag = "Philips PAR/REC"
)

// provenanceFields are always set by the merger itself and can never be
// overridden by source-file attributes.
var provenanceFields = map[string]struct{}{
	"ConversionSoftware":        {},
	"ConversionSoftwareVersion": {},
	"ConversionDate":            {},
	"SourceFormat":              {},
	"SourceFiles":               {},
}

// canonicalOrder fixes the position of well-known scan parameters so every
// sidecar in a dataset lists them identically.
var canonicalOrder = []string{
	"RepetitionTime",
	"EchoTime",
	"FlipAngle",
	"SliceThickness",
	"SliceGap",
	"PixelSpacing",
	"FieldOfView",
	"ScanResolution",
	"Angulation",
	"OffCentre",
	"PatientPosition",
	"Technique",
	"ScanMode",
	"ProtocolName",
	"SeriesType",
	"AcquisitionNumber",
	"ReconstructionNumber",
	"ScanDurationSec",
	"MaxSlices",
	"MaxEchoes",
	"MaxDynamics",
	"MaxCardiacPhases",
	"WaterFatShift",
	"PatientName",
	"ExaminationName",
	"ExaminationDateTime",
	"PreparationDirection",
}

// numericFields coerces string-valued auxiliary attributes into numbers when
// they land on a canonically numeric field.
var numericFields = map[string]struct{}{
	"RepetitionTime": {},
	"EchoTime":       {},
	"FlipAngle":      {},
	"SliceThickness": {},
	"SliceGap":       {},
	"WaterFatShift":  {},
}

// auxCanonical maps the trailing segment of a flattened auxiliary key to the
// canonical sidecar field it feeds. Unlisted keys pass through verbatim.
var auxCanonical = map[string]string{
	"Repetition Time":  "RepetitionTime",
	"Repetition Times": "RepetitionTime",
	"Echo Time":        "EchoTime",
	"Flip Angle":       "FlipAngle",
	"Slice Thickness":  "SliceThickness",
	"Slice Gap":        "SliceGap",
	"Protocol Name":    "ProtocolName",
	"Patient Position": "PatientPosition",
	"Technique":        "Technique",
	"Scan Mode":        "ScanMode",
	"Patient Name":     "PatientName",
}

// Merger combines raw and auxiliary attributes into sidecar records.
type Merger struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewMerger constructs a Merger using the wall clock.
func NewMerger(logger *slog.Logger) *Merger {
	return &Merger{logger: logging.NewComponentLogger(logger, "sidecar"), now: time.Now}
}

// WithClock overrides the timestamp source (used in tests).
func (m *Merger) WithClock(now func() time.Time) *Merger {
	if now != nil {
		m.now = now
	}
	return m
}

// Merge assembles the sidecar record for one scan. Auxiliary attributes
// override raw ones on collision; provenance fields always come from the
// merger itself. Missing optional fields are simply absent from the output.
//
// Time-valued fields follow the scanner's native millisecond convention
// (RepetitionTime, EchoTime); the PAR header's scan duration is seconds and
// is renamed ScanDurationSec to keep the unit explicit. Any future unit
// conversion belongs here and nowhere else.
func (m *Merger) Merge(raw, aux parrec.Attributes, identity bids.Identity, sources []string) *Record {
	record := NewRecord()

	record.Set("ConversionSoftware", ToolName)
	record.Set("ConversionSoftwareVersion", ToolVersion)
	record.Set("ConversionDate", m.now().Format(time.RFC3339))
	record.Set("SourceFormat", SourceFormatTag)
	record.Set("SourceFiles", append([]string(nil), sources...))
	record.Set("SubjectID", identity.Subject)
	record.Set("BIDSDataType", string(identity.DataType))

	rawFields := normalizeRaw(raw)
	auxFields, auxPassthrough := normalizeAux(aux)

	for _, name := range canonicalOrder {
		if value, ok := auxFields[name]; ok {
			record.Set(name, value)
			continue
		}
		if value, ok := rawFields[name]; ok {
			record.Set(name, value)
		}
	}

	for _, name := range sortedKeys(rawFields) {
		if _, provenance := provenanceFields[name]; provenance || record.Has(name) {
			continue
		}
		record.Set(name, rawFields[name])
	}

	for _, name := range auxPassthrough {
		if _, provenance := provenanceFields[name]; provenance {
			continue
		}
		record.Set(name, auxFields[name])
	}

	m.logger.Debug("merged sidecar record",
		logging.Int("fields", record.Len()),
		logging.Int("raw", len(raw)),
		logging.Int("aux", len(aux)),
	)
	return record
}

// normalizeRaw applies the merger's naming conventions to parser output.
func normalizeRaw(raw parrec.Attributes) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		if key == "ScanDuration" {
			key = "ScanDurationSec"
		}
		out[key] = value
	}
	return out
}

// normalizeAux canonicalizes auxiliary keys and coerces numeric strings. The
// returned slice lists the non-canonical passthrough keys in sorted order.
func normalizeAux(aux parrec.Attributes) (map[string]any, []string) {
	out := make(map[string]any, len(aux))
	var passthrough []string
	for _, key := range sortedKeys(aux) {
		value := aux[key]
		name, canonical := canonicalAuxName(key)
		if _, numeric := numericFields[name]; numeric {
			if text, ok := value.(string); ok {
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
					value = parsed
				}
			}
		}
		if _, exists := out[name]; exists && canonical {
			continue
		}
		out[name] = value
		if !canonical {
			passthrough = append(passthrough, name)
		}
	}
	sort.Strings(passthrough)
	return out, passthrough
}

func canonicalAuxName(key string) (string, bool) {
	segment := key
	if i := strings.LastIndex(key, "."); i >= 0 {
		segment = key[i+1:]
	}
	if name, ok := auxCanonical[segment]; ok {
		return name, true
	}
	return key, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

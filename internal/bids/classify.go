package bids

import (
	"log/slog"
	"strings"

	"parbids/internal/logging"
	"parbids/internal/parrec"
)

// Outcome is the classification half of an Identity: what kind of scan this
// is, independent of who it belongs to.
type Outcome struct {
	Suffix   string
	DataType DataType
	Task     string
}

// Rule pairs a predicate over the lower-cased protocol name and technique
// with the outcome it implies. Rules evaluates in order; the first match
// wins, so broader markers must come later.
type Rule struct {
	Name    string
	Matches func(protocol, technique string, tasks map[string]string) bool
	Outcome func(protocol string, tasks map[string]string) Outcome
}

// Rules is the ordered classification table. The final rule matches
// everything, so classification never fails.
var Rules = []Rule{
	{
		Name:    "t1-anatomical",
		Matches: markerRule("t1"),
		Outcome: fixedOutcome("T1w", DataTypeAnatomical, ""),
	},
	{
		Name:    "t2-anatomical",
		Matches: markerRule("t2"),
		Outcome: fixedOutcome("T2w", DataTypeAnatomical, ""),
	},
	{
		Name:    "resting-functional",
		Matches: markerRule("funct", "resting"),
		Outcome: fixedOutcome("bold", DataTypeFunctional, "rest"),
	},
	{
		Name: "task-functional",
		Matches: func(protocol, _ string, tasks map[string]string) bool {
			return matchTaskMarker(protocol, tasks) != ""
		},
		Outcome: func(protocol string, tasks map[string]string) Outcome {
			return Outcome{Suffix: "bold", DataType: DataTypeFunctional, Task: matchTaskMarker(protocol, tasks)}
		},
	},
	{
		Name:    "epi-test",
		Matches: markerRule("test_epi", "testepi"),
		Outcome: fixedOutcome("bold", DataTypeFunctional, "test"),
	},
	{
		Name:    "field-map",
		Matches: markerRule("b0map", "b0_map", "fieldmap"),
		Outcome: fixedOutcome("phasediff", DataTypeFieldMap, ""),
	},
	{
		Name:    "survey",
		Matches: markerRule("survey", "scout"),
		Outcome: fixedOutcome("scout", DataTypeAnatomical, ""),
	},
	{
		Name: "other-fallback",
		Matches: func(string, string, map[string]string) bool {
			return true
		},
		Outcome: func(protocol string, _ map[string]string) Outcome {
			suffix := strings.ToLower(SanitizeLabel(protocol))
			if suffix == "" {
				suffix = "unknown"
			}
			return Outcome{Suffix: suffix, DataType: DataTypeOther}
		},
	},
}

func markerRule(markers ...string) func(protocol, technique string, tasks map[string]string) bool {
	return func(protocol, technique string, _ map[string]string) bool {
		for _, marker := range markers {
			if strings.Contains(protocol, marker) || strings.Contains(technique, marker) {
				return true
			}
		}
		return false
	}
}

func fixedOutcome(suffix string, dataType DataType, task string) func(string, map[string]string) Outcome {
	outcome := Outcome{Suffix: suffix, DataType: dataType, Task: task}
	return func(string, map[string]string) Outcome {
		return outcome
	}
}

// matchTaskMarker returns the task label for the first configured marker
// contained in the protocol name. Markers are checked longest-first so a
// more specific marker beats a prefix of itself.
func matchTaskMarker(protocol string, tasks map[string]string) string {
	best := ""
	label := ""
	for marker, task := range tasks {
		if len(marker) > len(best) && strings.Contains(protocol, marker) {
			best = marker
			label = task
		}
	}
	return label
}

// Classifier derives scan identities using the shared rule table and a
// configured task-marker table.
type Classifier struct {
	tasks  map[string]string
	logger *slog.Logger
}

// NewClassifier constructs a Classifier. The tasks table maps lower-cased
// protocol-name markers to BIDS task labels.
func NewClassifier(tasks map[string]string, logger *slog.Logger) *Classifier {
	return &Classifier{tasks: tasks, logger: logging.NewComponentLogger(logger, "classifier")}
}

// Classify derives the identity for one scan and registers it with the
// ledger. The returned reassignments describe previously classified scans
// that retroactively gained a run index and whose artifacts must be renamed.
func (c *Classifier) Classify(attrs parrec.Attributes, subject, session string, ledger *Ledger) (Identity, []Reassignment) {
	protocolName, _ := attrs.String("ProtocolName")
	techniqueName, _ := attrs.String("Technique")
	protocol := strings.ToLower(strings.TrimSpace(protocolName))
	technique := strings.ToLower(strings.TrimSpace(techniqueName))

	var outcome Outcome
	matchedRule := ""
	for _, rule := range Rules {
		if rule.Matches(protocol, technique, c.tasks) {
			outcome = rule.Outcome(protocol, c.tasks)
			matchedRule = rule.Name
			break
		}
	}

	identity := Identity{
		Subject:     SanitizeLabel(subject),
		Session:     SanitizeLabel(session),
		Acquisition: strings.ToLower(SanitizeLabel(protocolName)),
		Task:        outcome.Task,
		Suffix:      outcome.Suffix,
		DataType:    outcome.DataType,
	}

	identity, reassigned := ledger.Add(identity)
	c.logger.Debug("classified scan",
		logging.String("protocol", protocolName),
		logging.String("rule", matchedRule),
		logging.String("suffix", identity.Suffix),
		logging.String("data_type", string(identity.DataType)),
		logging.Int("run", identity.Run),
	)
	return identity, reassigned
}

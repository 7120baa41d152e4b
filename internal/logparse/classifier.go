// Package logparse classifies raw PLC build logs into normalized error
// descriptors. A multi-stage build emits cascading output, so a single log can
// carry signals from several stages at once; a fixed priority order resolves
// which stage actually failed.
package logparse

import (
	"regexp"
	"strconv"

	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// stageRule binds a stage to its detection pattern and the location patterns
// specific to that stage's log format. Location patterns are tried in order;
// the first one that yields a parseable integer wins.
type stageRule struct {
	stage    models.Stage
	match    *regexp.Regexp
	location []*regexp.Regexp
}

// Rules are evaluated top to bottom. Code-generation crashes dominate because
// the toolchain itself faulted; IEC compiler errors are the common actionable
// case; XML schema warnings are often non-fatal and must not mask either.
var stageRules = []stageRule{
	{
		stage: models.StageCodeGeneration,
		match: regexp.MustCompile(`(?i)Traceback|AttributeError|Beremiz_cli|CRASH|empty POU`),
		location: []*regexp.Regexp{
			regexp.MustCompile(`at line\s+(\d+):`),
		},
	},
	{
		stage: models.StageIECCompilation,
		match: regexp.MustCompile(`(?i)iec2c|matiec|compiler error|error:`),
		location: []*regexp.Regexp{
			regexp.MustCompile(`\.st:(\d+)`),
			regexp.MustCompile(`at line\s+(\d+)`),
		},
	},
	{
		stage: models.StageXMLValidation,
		match: regexp.MustCompile(`(?i)XSD schema`),
		location: []*regexp.Regexp{
			regexp.MustCompile(`at line\s+(\d+):`),
		},
	},
}

// Classify maps raw multi-stage build log text to an ErrorDescriptor.
// It never fails: unrecognized input degrades to StageUnknown with no line
// number, and a stage match without a location match leaves Line nil.
func Classify(logText string) models.ErrorDescriptor {
	desc := models.ErrorDescriptor{
		Stage:    models.StageUnknown,
		Severity: models.SeverityInfo,
	}

	var matched *stageRule
	for i := range stageRules {
		if stageRules[i].match.MatchString(logText) {
			matched = &stageRules[i]
			break
		}
	}
	if matched == nil {
		return desc
	}

	desc.Stage = matched.stage
	desc.Severity = models.SeverityBlocking

	for _, loc := range matched.location {
		m := loc.FindStringSubmatch(logText)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		desc.Line = &n
		desc.RawSnippet = m[0]
		break
	}

	return desc
}

package eval

import (
	"time"

	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// CaseResult scores a single case against its ground truth.
type CaseResult struct {
	Kind              string        `json:"kind" yaml:"kind"`
	CorrectStage      bool          `json:"correct_stage" yaml:"correct_stage"`
	CorrectLine       bool          `json:"correct_line" yaml:"correct_line"`
	CorrectSeverity   bool          `json:"correct_severity" yaml:"correct_severity"`
	CorrectComplexity bool          `json:"correct_complexity" yaml:"correct_complexity"`
	HasSuggestions    bool          `json:"has_suggestions" yaml:"has_suggestions"`
	AvgConfidence     float64       `json:"avg_confidence" yaml:"avg_confidence"`
	ResponseTime      time.Duration `json:"response_time_ns" yaml:"response_time_ns"`
	Err               string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report aggregates results across all evaluated cases.
type Report struct {
	TotalCases         int                     `json:"total_cases" yaml:"total_cases"`
	Failures           int                     `json:"failures" yaml:"failures"`
	StageAccuracy      float64                 `json:"stage_accuracy" yaml:"stage_accuracy"`
	LineAccuracy       float64                 `json:"line_accuracy" yaml:"line_accuracy"`
	SeverityAccuracy   float64                 `json:"severity_accuracy" yaml:"severity_accuracy"`
	ComplexityAccuracy float64                 `json:"complexity_accuracy" yaml:"complexity_accuracy"`
	AvgConfidence      float64                 `json:"avg_suggestion_confidence" yaml:"avg_suggestion_confidence"`
	AvgResponseTime    time.Duration           `json:"avg_response_time_ns" yaml:"avg_response_time_ns"`
	ByKind             map[string]KindBreakdown `json:"results_by_kind" yaml:"results_by_kind"`
	Timestamp          time.Time               `json:"timestamp" yaml:"timestamp"`
}

// KindBreakdown summarizes accuracy for one case kind.
type KindBreakdown struct {
	Cases         int     `json:"cases" yaml:"cases"`
	StageAccuracy float64 `json:"stage_accuracy" yaml:"stage_accuracy"`
}

// ScorePipeline scores the deterministic pipeline outputs for a case.
// It never touches a provider, so it runs offline.
func ScorePipeline(c Case, desc models.ErrorDescriptor, elapsed time.Duration) CaseResult {
	return CaseResult{
		Kind:         c.Kind,
		CorrectStage: desc.Stage == c.ExpectedStage,
		CorrectLine:  desc.Line != nil && *desc.Line == c.ExpectedLine,
		ResponseTime: elapsed,
	}
}

// ScoreReport extends a pipeline score with the provider's diagnosis.
func ScoreReport(c Case, desc models.ErrorDescriptor, report models.DiagnosticReport, elapsed time.Duration) CaseResult {
	res := ScorePipeline(c, desc, elapsed)
	res.CorrectSeverity = report.Severity == c.ExpectedSeverity
	res.CorrectComplexity = report.Complexity == c.ExpectedComplexity
	res.HasSuggestions = len(report.Suggestions) > 0

	if res.HasSuggestions {
		var sum float64
		for _, s := range report.Suggestions {
			sum += s.Confidence
		}
		res.AvgConfidence = sum / float64(len(report.Suggestions))
	}
	return res
}

// Summarize aggregates case results into a report.
func Summarize(results []CaseResult) Report {
	rep := Report{
		TotalCases: len(results),
		ByKind:     make(map[string]KindBreakdown),
		Timestamp:  time.Now().UTC(),
	}
	if len(results) == 0 {
		return rep
	}

	var stage, line, severity, complexity, withConf int
	var confSum float64
	var timeSum time.Duration
	kindCases := make(map[string]int)
	kindStage := make(map[string]int)

	for _, r := range results {
		if r.Err != "" {
			rep.Failures++
		}
		if r.CorrectStage {
			stage++
			kindStage[r.Kind]++
		}
		if r.CorrectLine {
			line++
		}
		if r.CorrectSeverity {
			severity++
		}
		if r.CorrectComplexity {
			complexity++
		}
		if r.HasSuggestions {
			withConf++
			confSum += r.AvgConfidence
		}
		timeSum += r.ResponseTime
		kindCases[r.Kind]++
	}

	n := float64(len(results))
	rep.StageAccuracy = float64(stage) / n
	rep.LineAccuracy = float64(line) / n
	rep.SeverityAccuracy = float64(severity) / n
	rep.ComplexityAccuracy = float64(complexity) / n
	if withConf > 0 {
		rep.AvgConfidence = confSum / float64(withConf)
	}
	rep.AvgResponseTime = timeSum / time.Duration(len(results))

	for kind, cases := range kindCases {
		rep.ByKind[kind] = KindBreakdown{
			Cases:         cases,
			StageAccuracy: float64(kindStage[kind]) / float64(cases),
		}
	}

	return rep
}

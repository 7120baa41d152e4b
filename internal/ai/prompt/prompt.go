// Package prompt builds the diagnosis prompts shared by all AI providers.
package prompt

import (
	"fmt"
	"strings"

	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// System is the system instruction sent with every diagnosis request.
const System = `You are a Lead Automation Engineer specializing in IEC 61131-3 and industrial automation. ` +
	`Analyze PLC build logs and project XML context. Prioritize the root cause. ` +
	`If the error is an assignment to a CONSTANT variable, explain that CONSTANT variables ` +
	`cannot be modified in Structured Text. If it is a code generation crash with no ST code, ` +
	`explain that the POU body is empty.`

// schema describes the JSON shape the provider must return. Kept as prose for
// providers without native structured-output support.
const schema = `Respond with a single JSON object, no surrounding text:
{
  "severity": "blocking|warning|info",
  "stage": "xml_validation|code_generation|iec_compilation|c_compilation|unknown",
  "complexity": "trivial|moderate|complex",
  "root_cause": "brief explanation of the root cause",
  "suggestions": [
    {
      "explanation": "why this fixes the error",
      "before": "the faulty code snippet",
      "after": "the corrected code snippet",
      "confidence": 0.0
    }
  ]
}
Provide 1-3 suggestions ordered by descending confidence, each with confidence between 0 and 1.`

// Build renders the user prompt for a diagnosis request.
func Build(req models.DiagnosisRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Build Stage: %s\n", req.Descriptor.Stage)
	if req.Descriptor.Line != nil {
		fmt.Fprintf(&b, "Error Line: %d\n", *req.Descriptor.Line)
	} else {
		b.WriteString("Error Line: unknown\n")
	}

	if req.Context.ExtractionSucceeded {
		fmt.Fprintf(&b, "Program Unit: %s\n", req.Context.POUName)
		if len(req.Context.Variables) > 0 {
			b.WriteString("Declared Variables:\n")
			for _, v := range req.Context.Variables {
				flag := ""
				if v.Constant {
					flag = " (CONSTANT)"
				}
				fmt.Fprintf(&b, "  %s : %s%s\n", v.Name, v.Type, flag)
			}
		}
		if req.Context.CodeContext != "" {
			fmt.Fprintf(&b, "Code Context:\n%s\n", req.Context.CodeContext)
		} else {
			b.WriteString("Code Context: (empty POU body)\n")
		}
	} else {
		b.WriteString("Code Context: unavailable (malformed or POU-less project XML)\n")
	}

	if req.LogExcerpt != "" {
		fmt.Fprintf(&b, "\nBuild Log Excerpt:\n%s\n", req.LogExcerpt)
	}

	b.WriteString("\nGenerate a diagnostic report with 1-3 actionable suggestions.\n\n")
	b.WriteString(schema)

	return b.String()
}

package plcxml

import (
	"testing"

	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

const singlePOUProject = `<project xmlns="http://www.plcopen.org/xml/tc6_0201">
  <types>
    <dataTypes/>
    <pous>
      <pou name="PLC_PRG" pouType="program">
        <interface>
          <localVars constant="true" retain="false">
            <variable name="LocalVar0">
              <type><BOOL/></type>
              <documentation/>
            </variable>
            <variable name="LocalVar1">
              <type><BOOL/></type>
            </variable>
          </localVars>
        </interface>
        <body>
          <ST>
            <xhtml:p xmlns:xhtml="http://www.w3.org/1999/xhtml">LocalVar1 := LocalVar0;</xhtml:p>
          </ST>
        </body>
      </pou>
    </pous>
  </types>
</project>`

func lineHint(n int) models.ErrorDescriptor {
	return models.ErrorDescriptor{
		Stage:    models.StageIECCompilation,
		Line:     &n,
		Severity: models.SeverityBlocking,
	}
}

func TestExtract_SinglePOU(t *testing.T) {
	ctx := Extract(singlePOUProject, lineHint(12))

	if !ctx.ExtractionSucceeded {
		t.Fatal("expected extraction to succeed")
	}
	if ctx.POUName != "PLC_PRG" {
		t.Errorf("expected pou PLC_PRG, got %q", ctx.POUName)
	}
	if ctx.CodeContext != "LocalVar1 := LocalVar0;" {
		t.Errorf("body text not preserved verbatim, got %q", ctx.CodeContext)
	}
}

func TestExtract_SinglePOUWithoutLineHint(t *testing.T) {
	desc := models.ErrorDescriptor{Stage: models.StageUnknown, Severity: models.SeverityInfo}
	ctx := Extract(singlePOUProject, desc)

	if !ctx.ExtractionSucceeded {
		t.Fatal("expected extraction to succeed without a line hint")
	}
	if ctx.POUName != "PLC_PRG" {
		t.Errorf("expected pou PLC_PRG, got %q", ctx.POUName)
	}
}

func TestExtract_DeclaredVariables(t *testing.T) {
	ctx := Extract(singlePOUProject, lineHint(12))

	if len(ctx.Variables) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(ctx.Variables))
	}
	if ctx.Variables[0].Name != "LocalVar0" || ctx.Variables[0].Type != "BOOL" {
		t.Errorf("unexpected first variable: %+v", ctx.Variables[0])
	}
	if !ctx.Variables[0].Constant || !ctx.Variables[1].Constant {
		t.Error("variables in a constant localVars list should be marked constant")
	}
}

func TestExtract_MalformedXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"truncated", "<project><pou name='x'>"},
		{"not xml", "this is not xml at all"},
		{"empty string", ""},
		{"mismatched tags", "<project><pou></project></pou>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Extract(tt.xml, lineHint(1))
			if ctx.ExtractionSucceeded {
				t.Error("expected extraction to fail")
			}
			if ctx.CodeContext != "" {
				t.Errorf("expected empty context, got %q", ctx.CodeContext)
			}
			if ctx.POUName != "" {
				t.Errorf("expected empty pou name sentinel, got %q", ctx.POUName)
			}
		})
	}
}

func TestExtract_NoPOUs(t *testing.T) {
	ctx := Extract("<project/>", lineHint(1))
	if ctx.ExtractionSucceeded {
		t.Error("expected extraction to fail on document without POUs")
	}
	if ctx.CodeContext != "" {
		t.Errorf("expected empty context, got %q", ctx.CodeContext)
	}
}

func TestExtract_EmptyBodyStillLocatesPOU(t *testing.T) {
	xml := `<project xmlns="http://www.plcopen.org/xml/tc6_0201">
  <pous>
    <pou name="program0" pouType="program">
      <interface><localVars/></interface>
      <body><ST></ST></body>
    </pou>
  </pous>
</project>`

	ctx := Extract(xml, models.ErrorDescriptor{Stage: models.StageCodeGeneration})
	if !ctx.ExtractionSucceeded {
		t.Fatal("locating the POU should succeed even with an empty body")
	}
	if ctx.POUName != "program0" {
		t.Errorf("expected pou program0, got %q", ctx.POUName)
	}
	if ctx.CodeContext != "" {
		t.Errorf("expected empty code context, got %q", ctx.CodeContext)
	}
}

func TestExtract_MissingBodyElement(t *testing.T) {
	xml := `<project><pous><pou name="p0"/></pous></project>`

	ctx := Extract(xml, models.ErrorDescriptor{Stage: models.StageUnknown})
	if !ctx.ExtractionSucceeded {
		t.Fatal("expected success at POU granularity")
	}
	if ctx.CodeContext != "" {
		t.Errorf("expected empty code context, got %q", ctx.CodeContext)
	}
}

func TestExtract_WithoutNamespace(t *testing.T) {
	xml := `<project>
  <pous>
    <pou name="program0">
      <body><ST><p>Counter := Counter + 1;</p></ST></body>
    </pou>
  </pous>
</project>`

	ctx := Extract(xml, lineHint(3))
	if !ctx.ExtractionSucceeded {
		t.Fatal("expected namespace-free documents to work")
	}
	if ctx.CodeContext != "Counter := Counter + 1;" {
		t.Errorf("got %q", ctx.CodeContext)
	}
}

func TestExtract_MultiplePOUs_LineHintPrefersFirstWithBody(t *testing.T) {
	xml := `<project>
  <pous>
    <pou name="empty0"><body><ST></ST></body></pou>
    <pou name="worker"><body><ST><p>Out := In;</p></ST></body></pou>
    <pou name="other"><body><ST><p>X := Y;</p></ST></body></pou>
  </pous>
</project>`

	ctx := Extract(xml, lineHint(7))
	if ctx.POUName != "worker" {
		t.Errorf("expected first POU with code, got %q", ctx.POUName)
	}
	if ctx.CodeContext != "Out := In;" {
		t.Errorf("got %q", ctx.CodeContext)
	}
}

func TestExtract_MultiplePOUs_NoHintPicksFirst(t *testing.T) {
	xml := `<project>
  <pous>
    <pou name="first"><body><ST></ST></body></pou>
    <pou name="second"><body><ST><p>X := Y;</p></ST></body></pou>
  </pous>
</project>`

	ctx := Extract(xml, models.ErrorDescriptor{Stage: models.StageUnknown})
	if ctx.POUName != "first" {
		t.Errorf("without a hint the first POU in document order wins, got %q", ctx.POUName)
	}
}

func TestParse_TreeShape(t *testing.T) {
	root, err := Parse(singlePOUProject)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if root.Name.Local != "project" {
		t.Errorf("expected project root, got %q", root.Name.Local)
	}
	if got := len(root.FindAll("pou")); got != 1 {
		t.Errorf("expected 1 pou, got %d", got)
	}
	if root.FindFirst("missing") != nil {
		t.Error("expected nil for absent element")
	}
}

func TestTextContent_SkipsFormattingWhitespace(t *testing.T) {
	root, err := Parse("<a>\n  <b>keep  internal</b>\n</a>")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if got := root.TextContent(); got != "keep  internal" {
		t.Errorf("got %q", got)
	}
}

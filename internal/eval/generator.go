// Package eval generates synthetic PLC error cases and scores diagnosis
// quality against their ground-truth labels.
package eval

import (
	"fmt"

	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// Case is a synthetic error case with ground-truth labels.
type Case struct {
	Kind               string            `json:"kind" yaml:"kind"`
	LogText            string            `json:"-" yaml:"-"`
	XMLContent         string            `json:"-" yaml:"-"`
	ExpectedStage      models.Stage      `json:"expected_stage" yaml:"expected_stage"`
	ExpectedLine       int               `json:"expected_line" yaml:"expected_line"`
	ExpectedSeverity   models.Severity   `json:"expected_severity" yaml:"expected_severity"`
	ExpectedComplexity models.Complexity `json:"expected_complexity" yaml:"expected_complexity"`
}

const (
	KindConstantError = "constant_error"
	KindCodeGenCrash  = "code_generation"
)

const constantErrorLogTemplate = `[17:05:55]: Building project...
[17:05:56]: Cannot build project.
stdout: Warning: PLC XML file doesn't follow XSD schema at line 61:
Element '{http://www.plcopen.org/xml/tc6_0201}data': Missing child element(s).Start build in /tmp/.tmpMngQvj/build
Generating SoftPLC IEC-61131 ST/IL/SFC code...
Collecting data types
Collecting POUs
Generate POU program0
Generate Config(s)
Compiling IEC Program into C code...
"/root/beremiz/matiec/iec2c" -f -l -p -I "/root/beremiz/matiec/lib" -T "/tmp/.tmpMngQvj/build" "/tmp/.tmpMngQvj/build/plc.st"
Warning: exited with status 1 (pid 187)
Warning: /tmp/.tmpMngQvj/build/plc.st:%d-4..%d-12: error: Assignment to CONSTANT variables is not allowed.
Warning: In section: PROGRAM program0
Warning: %04d: %s
Warning: 1 error(s) found. Bailing out!
Error: Error : IEC to C compiler returned 1
Error: PLC code generation failed !
`

const constantErrorXMLTemplate = `<project xmlns="http://www.plcopen.org/xml/tc6_0201">
  <fileHeader companyName="Unknown" productName="Unnamed" productVersion="1" creationDateTime="2023-09-14T08:06:45"/>
  <types>
    <dataTypes/>
    <pous>
      <pou name="program0" pouType="program">
        <interface>
          <localVars constant="true" retain="false">
            <variable name="%s">
              <type><BOOL/></type>
              <documentation/>
            </variable>
            <variable name="%s">
              <type><BOOL/></type>
              <documentation/>
            </variable>
          </localVars>
        </interface>
        <body>
          <ST>
            <xhtml:p xmlns:xhtml="http://www.w3.org/1999/xhtml">%s := %s;</xhtml:p>
          </ST>
        </body>
        <documentation/>
      </pou>
    </pous>
  </types>
</project>
`

const codeGenCrashLogTemplate = `[18:16:53]: Building project...
[18:16:54]: Cannot build project.
stdout: Warning: PLC XML file doesn't follow XSD schema at line %d:
Element '{http://www.plcopen.org/xml/tc6_0201}data': Missing child element(s).Start build in /tmp/.tmpL3UKDb/build
Generating SoftPLC IEC-61131 ST/IL/SFC code...
Collecting data types
Collecting POUs
Generate POU program0

stderr: Traceback (most recent call last):
File "/root/beremiz/Beremiz_cli.py", line 130, in <module>
cli()
File "/root/beremiz/PLCGenerator.py", line 959, in ComputeProgram
self.ParentGenerator.GeneratePouProgramInText(text.upper())
AttributeError: 'NoneType' object has no attribute 'upper'
`

const emptyProjectXMLTemplate = `<project xmlns="http://www.plcopen.org/xml/tc6_0201">
  <types>
    <dataTypes/>
    <pous>
      <pou name="program0" pouType="program">
        <interface>
          <localVars constant="false" retain="false"/>
        </interface>
        <body>
          <ST>
            <xhtml:p xmlns:xhtml="http://www.w3.org/1999/xhtml">%s</xhtml:p>
          </ST>
        </body>
        <documentation/>
      </pou>
    </pous>
  </types>
</project>
`

// varPairs are source/target name pairs cycled through constant-error cases.
var varPairs = [][2]string{
	{"InputSignal", "OutputSignal"},
	{"SensorValue", "ActuatorCommand"},
	{"Temperature", "SetPoint"},
	{"Pressure", "Relief"},
	{"Counter", "MaxCount"},
	{"Status", "State"},
	{"Flag", "Trigger"},
	{"SourceData", "TargetData"},
}

// GenerateConstantErrors builds count variations of a constant-assignment
// build failure, varying the reported line and the variable names.
func GenerateConstantErrors(count int) []Case {
	cases := make([]Case, 0, count)
	line := 20
	for i := 0; i < count; i++ {
		pair := varPairs[i%len(varPairs)]
		src, dst := pair[0], pair[1]
		assignment := fmt.Sprintf("%s := %s;", dst, src)

		cases = append(cases, Case{
			Kind:               KindConstantError,
			LogText:            fmt.Sprintf(constantErrorLogTemplate, line, line, line, assignment),
			XMLContent:         fmt.Sprintf(constantErrorXMLTemplate, src, dst, dst, src),
			ExpectedStage:      models.StageIECCompilation,
			ExpectedLine:       line,
			ExpectedSeverity:   models.SeverityBlocking,
			ExpectedComplexity: models.ComplexityTrivial,
		})
		line += 3
	}
	return cases
}

// GenerateCodeGenCrashes builds count variations of a code-generation crash
// caused by an empty POU body.
func GenerateCodeGenCrashes(count int) []Case {
	cases := make([]Case, 0, count)
	line := 40
	for i := 0; i < count; i++ {
		cases = append(cases, Case{
			Kind:               KindCodeGenCrash,
			LogText:            fmt.Sprintf(codeGenCrashLogTemplate, line),
			XMLContent:         fmt.Sprintf(emptyProjectXMLTemplate, ""),
			ExpectedStage:      models.StageCodeGeneration,
			ExpectedLine:       line,
			ExpectedSeverity:   models.SeverityBlocking,
			ExpectedComplexity: models.ComplexityTrivial,
		})
		line += 3
	}
	return cases
}

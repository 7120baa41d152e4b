package plcxml

import (
	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// Extract locates the POU relevant to a classified error inside a PLCopen
// project document and pulls out its code body.
//
// It never fails: malformed XML or a document without POUs yields a zero
// CodeContext with ExtractionSucceeded=false, so the caller can continue with
// a degraded diagnosis. ExtractionSucceeded reports POU location only; a
// located POU with an empty body is still a success.
func Extract(xmlText string, desc models.ErrorDescriptor) models.CodeContext {
	root, err := Parse(xmlText)
	if err != nil {
		return models.CodeContext{}
	}

	pous := root.FindAll("pou")
	if len(pous) == 0 {
		return models.CodeContext{}
	}

	pou := selectPOU(pous, desc)

	return models.CodeContext{
		POUName:             pou.Attr("name"),
		CodeContext:         bodyText(pou),
		Variables:           declaredVariables(pou),
		ExtractionSucceeded: true,
	}
}

// selectPOU picks the POU most plausibly holding the error. A single POU is
// selected unconditionally. With multiple POUs and a line hint, the first POU
// carrying any code body is preferred; PLCopen documents do not reliably
// declare source positions, so document order is the deterministic tie-break.
func selectPOU(pous []*Node, desc models.ErrorDescriptor) *Node {
	if len(pous) == 1 {
		return pous[0]
	}

	if desc.Line != nil {
		for _, p := range pous {
			if bodyText(p) != "" {
				return p
			}
		}
	}

	return pous[0]
}

// bodyText extracts the text content of the POU's language body (the first
// element under <body>, e.g. <ST> or <IL>), verbatim. Returns an empty
// string when the body or its language element is missing.
func bodyText(pou *Node) string {
	body := pou.FindFirst("body")
	if body == nil {
		return ""
	}

	langs := body.ElementChildren()
	if len(langs) == 0 {
		return ""
	}

	return langs[0].TextContent()
}

// declaredVariables collects the POU's interface declarations. The constant
// flag lives on the enclosing variable-list element (localVars etc.), not the
// variable itself.
func declaredVariables(pou *Node) []models.Variable {
	iface := pou.FindFirst("interface")
	if iface == nil {
		return nil
	}

	var vars []models.Variable
	for _, list := range iface.ElementChildren() {
		constant := list.Attr("constant") == "true"
		for _, v := range list.FindAll("variable") {
			name := v.Attr("name")
			if name == "" {
				continue
			}
			vars = append(vars, models.Variable{
				Name:     name,
				Type:     variableType(v),
				Constant: constant,
			})
		}
	}
	return vars
}

// variableType reads the declared type, which PLCopen encodes as the name of
// the single element under <type> (e.g. <type><BOOL/></type>).
func variableType(v *Node) string {
	typ := v.FindFirst("type")
	if typ == nil {
		return ""
	}
	elems := typ.ElementChildren()
	if len(elems) == 0 {
		return ""
	}
	return elems[0].Name.Local
}

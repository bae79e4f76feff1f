// =============================================================================
// Political Fund Report Compiler - XML Writer Module
// =============================================================================
//
// This module renders element trees into the fixed-schema XML document.
//
// XML STRUCTURE:
//   <?xml version="1.0" encoding="Shift_JIS"?>
//   <BOOK>
//     <HEAD>
//       <VERSION>…</VERSION>
//       <SYUUSHI_UMU>1100010000…</SYUUSHI_UMU>      <!-- presence flags -->
//     </HEAD>
//     <SYUUSHI07_01>                                 <!-- one element per form -->
//       <SHEET>
//         <DANTAI_NM>…</DANTAI_NM>
//         <DANTAI_KANA/>                             <!-- empty, never omitted -->
//       </SHEET>
//     </SYUUSHI07_01>
//     …
//   </BOOK>
//
// The declaration names Shift_JIS while the rendered string is UTF-8; the
// caller pairs the string with the bytes produced by EncodeShiftJIS.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding named in the declaration.
	// Default: "Shift_JIS"
	Encoding string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "Shift_JIS",
	}
}

// =============================================================================
// ELEMENT TREE
// =============================================================================

// Element is an XML element holding either a text value or children.
type Element struct {
	Name     string
	Value    string
	Children []Element
}

// Leaf creates an element with a text value. An empty value renders as a
// self-closing element.
func Leaf(name, value string) Element {
	return Element{Name: name, Value: value}
}

// Node creates an element with children.
func Node(name string, children ...Element) Element {
	return Element{Name: name, Children: append([]Element(nil), children...)}
}

// Add appends children and returns the element.
func (e Element) Add(children ...Element) Element {
	e.Children = append(e.Children, children...)
	return e
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Render writes the declaration and the element tree.
func Render(root Element, options GenerateOptions) string {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	writeElement(&buffer, root, options.Indent, 0)
	return buffer.String()
}

// RenderFragment renders an element without the declaration.
func RenderFragment(e Element) string {
	options := DefaultGenerateOptions()
	options.IncludeXMLDeclaration = false
	return Render(e, options)
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element Element, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.Name)

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(EscapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}

// EscapeXML escapes special characters for XML text and attributes.
func EscapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

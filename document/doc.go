// Package document reads meow documents from YAML.
//
// A source file is a YAML stream and every YAML document in it is one meow
// document:
//
//	name: greeting
//	paragraphs:
//	  - - {text: meow, bold: true, color: EE0000, highlight: yellow}
//	    - hello
//	---
//	- [hello again]
//
// The second form, a bare sequence, is shorthand for a document holding
// only paragraphs. A paragraph is a sequence of runs, or a single scalar.
// A run is either a scalar, taken as plain text of default style, or a
// mapping with any of the keys
//
//	text        run text
//	italic      bool
//	bold        bool
//	underline   none, single, double, wave, ...
//	color       hex RGB such as EE0000 or "#ee0000"
//	highlight   yellow, lightGray, darkBlue, ...
//	font        font name
//	size        font size in points
//	image       path of a PNG, JPEG or GIF, relative to the document
//	image_data  base64 encoded image bytes
//
// Scalars keep the text they were written with: a run written 1.0 or 0x1F
// is that text, not the number YAML would resolve it to. The same holds for
// colors, so 000080 is navy.
package document

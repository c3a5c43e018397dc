package svg

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

const (
	fontSize      = 13.0
	fontCharWidth = 0.6
	boxPadding    = 8.0
)

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TruncateLabel shortens label so that it fits a box of the given width.
func TruncateLabel(label string, width float64) string {
	maxChars := max(3, int((width-2*boxPadding)/(fontSize*fontCharWidth)))
	if utf8.RuneCountInString(label) <= maxChars {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxChars-2]) + ".."
}

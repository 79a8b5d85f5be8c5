// Package format renders integer amounts with thousands separators for
// display fields; stored values stay plain integers.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Amount formats n with thousands separators, e.g. 12000 -> "12,000".
func Amount(n int) string {
	return printer.Sprintf("%d", n)
}

// Package stringlib provides string functions beyond goLang primitives
package stringlib

import (
	"regexp"
	"strings"
)

/***************************************************************************************************************
****************************************************************************************************************
* String functions *********************************************************************************************
****************************************************************************************************************
****************************************************************************************************************/

// RmNewLines removes any newline found on the input string
func RmNewLines(t string) string {
	var re = regexp.MustCompile(`(\r?\n+)`)
	t = re.ReplaceAllString(t, "")

	return t
}

// SplitLines trims the whole text once and splits it on newlines.
// Lines are not trimmed and blank inner lines are kept as empty strings.
func SplitLines(text string) []string {
	return strings.Split(strings.TrimSpace(text), "\n")
}

// ReplaceExt swaps the trailing extension from by to. When name does not end
// with from, to is appended instead.
func ReplaceExt(name, from, to string) string {
	if strings.HasSuffix(name, from) {
		return strings.TrimSuffix(name, from) + to
	}
	return name + to
}

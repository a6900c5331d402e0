// Package blockname converts between block class names, as found on
// rendered block containers, and the display names authors see in the
// header row of an authoring table.
package blockname

import (
	"regexp"
	"strings"
	"unicode"
)

// ErrInvalidName is returned when a name contains no usable characters.
const ErrInvalidName = Error("invalid block name")

// Error is an error type for block name conversion failures.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

var (
	// displayName splits "Columns (reverse, wide)" into the base name and
	// the variant list.
	displayName = regexp.MustCompile(`^\s*([^()]*?)\s*(?:\(([^()]*)\))?\s*$`)

	// nonAlphanumeric runs collapse to a single dash in class names.
	nonAlphanumeric = regexp.MustCompile(`[^0-9a-z]+`)

	// acronyms maps title-cased names to their preferred spelling.
	acronyms = map[string]string{
		"Cta Banner": "CTA Banner",
		"Faq":        "FAQ",
	}
)

// ToDisplayName converts a class list such as "columns reverse" into the
// display name "Columns (reverse)". The first class is the block name and
// the rest are variants.
func ToDisplayName(classList string) (string, error) {
	classes := strings.Fields(classList)
	if len(classes) == 0 {
		return "", ErrInvalidName
	}
	name := titleCase(strings.ReplaceAll(classes[0], "-", " "))
	if acronym, ok := acronyms[name]; ok {
		name = acronym
	}
	if len(classes) == 1 {
		return name, nil
	}
	variants := make([]string, len(classes)-1)
	for i, variant := range classes[1:] {
		variants[i] = strings.ReplaceAll(variant, "-", " ")
	}
	return name + " (" + strings.Join(variants, ", ") + ")", nil
}

// ToClassList converts a display name such as "Columns (reverse, wide)" into
// the class list "columns reverse wide".
func ToClassList(display string) (string, error) {
	match := displayName.FindStringSubmatch(display)
	if match == nil {
		return "", ErrInvalidName
	}
	name := ToClassName(match[1])
	if name == "" {
		return "", ErrInvalidName
	}
	classes := []string{name}
	for _, variant := range strings.Split(match[2], ",") {
		if class := ToClassName(variant); class != "" {
			classes = append(classes, class)
		}
	}
	return strings.Join(classes, " "), nil
}

// ToClassName lower-cases name and collapses every run of characters other
// than letters and digits into a single dash.
func ToClassName(name string) string {
	name = nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(name, "-")
}

// titleCase upper-cases the first rune of each space-separated word and
// lower-cases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

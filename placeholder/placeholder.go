// Package placeholder converts positional message arguments between the
// message-file encoding ($1, $2, ...) and the encoding the translation
// service leaves alone (__1__, __2__, ...).
//
// Messages are rewritten to the service form before the call and back
// afterwards.
package placeholder

import (
	"regexp"
	"slices"
	"strconv"
)

var (
	srcToken     = regexp.MustCompile(`\$([0-9]+)`)
	serviceToken = regexp.MustCompile(`__([0-9]+)__`)
)

// ToService rewrites every $<n> in s as __<n>__.
func ToService(s string) string {
	return srcToken.ReplaceAllString(s, "__${1}__")
}

// FromService rewrites every __<n>__ in s as $<n>.
func FromService(s string) string {
	return serviceToken.ReplaceAllString(s, "$$${1}")
}

// Indices returns the placeholder indices of a source-form message in the
// order they appear. Indices that do not fit an int are skipped.
func Indices(s string) []int {
	matches := srcToken.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Same reports whether a and b carry the same multiset of placeholder
// indices. Order is not compared: word order legitimately changes between
// languages.
func Same(a, b string) bool {
	ia, ib := Indices(a), Indices(b)
	if len(ia) != len(ib) {
		return false
	}
	slices.Sort(ia)
	slices.Sort(ib)
	return slices.Equal(ia, ib)
}

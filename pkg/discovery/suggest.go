package discovery

import (
	"github.com/sahilm/fuzzy"
)

// MaxSuggestions caps what Suggest returns
const MaxSuggestions = 3

// Suggest returns the names of found candidates that fuzzily match name,
// best match first
func Suggest(name string, candidates []Candidate) []string {
	var names []string
	for _, c := range candidates {
		if c.Found && c.Name != name {
			names = append(names, c.Name)
		}
	}

	matches := fuzzy.Find(NormalizeName(name), names)
	var out []string
	for i, m := range matches {
		if i == MaxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Package classify maps mesh names to saber part categories by keyword.
package classify

import "strings"

// Category is the semantic slot a mesh name suggests.
type Category string

const (
	Hilt  Category = "hilt"
	Blade Category = "blade"
)

var hiltKeywords = []string{"hilt", "handle", "grip", "guard", "pommel", "emitter"}
var bladeKeywords = []string{"blade", "beam", "glow", "laser"}

// Categorize decides whether a mesh name belongs to the hilt or the blade.
// Hilt keywords win over blade keywords; unknown names default to hilt.
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, k := range hiltKeywords {
		if strings.Contains(lower, k) {
			return Hilt
		}
	}
	for _, k := range bladeKeywords {
		if strings.Contains(lower, k) {
			return Blade
		}
	}
	return Hilt
}

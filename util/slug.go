package util

import "github.com/gosimple/slug"

// Slugify lowercases, transliterates and joins words with single dashes:
// "Élite: Temporada 1" becomes "elite-temporada-1".
func Slugify(s string) string {
	return slug.Make(s)
}

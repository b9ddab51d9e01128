package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe slug: transliterate to ASCII,
// lowercase, collapse everything else into single dashes.
func Slugify(s string) string {
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	s = slugInvalid.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "untitled"
	}
	return s
}

// SlugExistsFunc reports whether a slug is already taken within the caller's
// scope (content type, region, language, excluding the instance itself).
type SlugExistsFunc func(slug string) (bool, error)

// UniqueSlug returns the desired slug unchanged if it is free, otherwise the
// first free variant with a numeric suffix (-2, -3, ...). The scope is
// entirely up to the callback, so every content type can reuse this.
func UniqueSlug(desired string, exists SlugExistsFunc) (string, error) {
	slug := Slugify(desired)

	taken, err := exists(slug)
	if err != nil {
		return "", err
	}
	if !taken {
		return slug, nil
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", slug, i)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Willkommen in Augsburg", "willkommen-in-augsburg"},
		{"Größe & Läufe", "grosse-laufe"},
		{"  Trim -- me  ", "trim-me"},
		{"Événement français", "evenement-francais"},
		{"123 go!", "123-go"},
		{"!!!", "untitled"},
		{"", "untitled"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestUniqueSlugFree(t *testing.T) {
	slug, err := UniqueSlug("City Hall", func(string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "city-hall", slug)
}

func TestUniqueSlugTaken(t *testing.T) {
	taken := map[string]bool{"city-hall": true, "city-hall-2": true}
	slug, err := UniqueSlug("City Hall", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "city-hall-3", slug)
}

func TestUniqueSlugPropagatesError(t *testing.T) {
	wantErr := errors.New("db down")
	_, err := UniqueSlug("City Hall", func(string) (bool, error) { return false, wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestStripTagsFull(t *testing.T) {
	got := StripTagsFull("<p>Hello <b>world</b></p><p>second</p>")
	assert.Equal(t, "Hello world second", got)
}

func TestStripTagsExcerpt(t *testing.T) {
	short := StripTags("<p>short text</p>")
	assert.Equal(t, "short text", short)

	long := ""
	for i := 0; i < 60; i++ {
		long += "<span>word</span> "
	}
	excerpt := StripTags(long)
	assert.LessOrEqual(t, len(excerpt), excerptLength+len("…"))
	assert.True(t, len(excerpt) > 0)
	assert.Contains(t, excerpt, "…")
}

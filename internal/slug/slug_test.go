package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "simple title", title: "Hello World", expected: "hello-world"},
		{name: "already lower", title: "story", expected: "story"},
		{name: "diacritics stripped", title: "Les Glyphes de Cydonia", expected: "les-glyphes-de-cydonia"},
		{name: "accented letters", title: "Élan précédé", expected: "elan-precede"},
		{name: "punctuation collapsed", title: "Hello,  World!!!", expected: "hello-world"},
		{name: "leading and trailing junk", title: "  --Hello--  ", expected: "hello"},
		{name: "digits kept", title: "Chapter 42", expected: "chapter-42"},
		{name: "only junk", title: "!!! ---", expected: ""},
		{name: "empty", title: "", expected: ""},
		{name: "mixed case with apostrophe", title: "L'Étoile du Nord", expected: "l-etoile-du-nord"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Make(tc.title))
		})
	}
}

func TestMakeDeterministic(t *testing.T) {
	title := "Les Glyphes de Cydonia"
	assert.Equal(t, Make(title), Make(title))
}

func TestMakeCollision(t *testing.T) {
	// Разные заголовки могут дать один slug, это документированное поведение
	assert.Equal(t, Make("Hello World"), Make("hello, world"))
}

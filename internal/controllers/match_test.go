package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	assert.Equal(t, "pilot part 1", foldName("Pilot – Part 1"))
	assert.Equal(t, "pilot part 1", foldName("pilot - part 1"))
	assert.Equal(t, "amelie", foldName("Amélie"))
	assert.Equal(t, "strasse", foldName("STRASSE"))
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Fly", "Fly", true},
		{"Geschenk des Teufels", "geschenk des teufels", true},
		{"Ozymandias", "Ozymandías", true},
		{"The Rains of Castamere", "The Rain of Castamere", true},
		{"Fly", "Pilot", false},
		{"Episode 1", "Episode 2", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, namesMatch(tt.a, tt.b))
		})
	}
}

func TestEpisodeNumberFromName(t *testing.T) {
	n, ok := episodeNumberFromName("Folge 3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = episodeNumberFromName("Episode 12")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = episodeNumberFromName("Chapter 9")
	assert.False(t, ok)
}

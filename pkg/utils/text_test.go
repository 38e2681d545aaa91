package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Just text", "Just text"},
		{"br to newline", "Line one<br>Line two<br/>Line three", "Line one\nLine two\nLine three"},
		{"italic stripped", "A <i>great</i> show", "A great show"},
		{"unknown tags", "<p>Para <b>bold</b></p>", "Para bold"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeHTML(tt.in))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords("   "))
	assert.Equal(t, 3, CountWords("  one two\tthree \n"))
}

func TestTruncateWords(t *testing.T) {
	out, cut := TruncateWords("a b c", 5)
	assert.False(t, cut)
	assert.Equal(t, "a b c", out)

	out, cut = TruncateWords("a b c d", 2)
	assert.True(t, cut)
	assert.Equal(t, "a b...", out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Frier...", Truncate("Frieren: Beyond", 8))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Re_Zero", SanitizeFilename("Re:Zero"))
	assert.Equal(t, "journal", SanitizeFilename(" journal. "))
}

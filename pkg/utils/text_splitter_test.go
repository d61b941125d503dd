package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{
			name:       "short text stays whole",
			text:       "hello world",
			chunkSize:  100,
			overlap:    10,
			wantChunks: 1,
		},
		{
			name:       "splits with overlap",
			text:       strings.Repeat("a", 250),
			chunkSize:  100,
			overlap:    20,
			wantChunks: 3, // steps of 80: 0-100, 80-180, 160-250
		},
		{
			name:       "overlap larger than chunk falls back",
			text:       strings.Repeat("b", 200),
			chunkSize:  100,
			overlap:    150,
			wantChunks: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			assert.Len(t, chunks, tt.wantChunks)
			for _, c := range chunks {
				assert.LessOrEqual(t, len([]rune(c)), tt.chunkSize)
			}
		})
	}
}

func TestSplitTextPreservesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("こんにちは", 50) // 250 runes
	chunks := SplitText(text, 100, 0)

	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c)
	}
	assert.Equal(t, text, rebuilt.String())
}

package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSegments_GSM(t *testing.T) {
	t.Run("exactly 160 ascii is one segment", func(t *testing.T) {
		info := CalculateSegments(strings.Repeat("a", 160))
		assert.Equal(t, 160, info.Characters)
		assert.Equal(t, 1, info.Segments)
		assert.Equal(t, EncodingGSM, info.Encoding)
		assert.Equal(t, 160, info.CharactersPerSegment)
	})

	t.Run("161 ascii spills into two segments", func(t *testing.T) {
		info := CalculateSegments(strings.Repeat("a", 161))
		assert.Equal(t, 2, info.Segments)
		assert.Equal(t, 153, info.CharactersPerSegment)
	})

	t.Run("306 ascii still fits two segments", func(t *testing.T) {
		info := CalculateSegments(strings.Repeat("a", 306))
		assert.Equal(t, 2, info.Segments)
	})

	t.Run("307 ascii needs three", func(t *testing.T) {
		info := CalculateSegments(strings.Repeat("a", 307))
		assert.Equal(t, 3, info.Segments)
	})

	t.Run("extension characters cost two septets", func(t *testing.T) {
		// 159 'a' plus '{' = 161 septets, so two segments despite 160 runes.
		info := CalculateSegments(strings.Repeat("a", 159) + "{")
		assert.Equal(t, 160, info.Characters)
		assert.Equal(t, 2, info.Segments)
		assert.Equal(t, EncodingGSM, info.Encoding)
	})
}

func TestCalculateSegments_Unicode(t *testing.T) {
	bengali := "আপনার অর্ডার প্রস্তুত" // "your order is ready"

	t.Run("bengali forces unicode", func(t *testing.T) {
		info := CalculateSegments(bengali)
		assert.Equal(t, EncodingUnicode, info.Encoding)
		assert.Equal(t, 1, info.Segments)
		assert.Equal(t, 70, info.CharactersPerSegment)
	})

	t.Run("70 unicode characters is one segment", func(t *testing.T) {
		info := CalculateSegments(strings.Repeat("ক", 70))
		assert.Equal(t, 70, info.Characters)
		assert.Equal(t, 1, info.Segments)
	})

	t.Run("71 unicode characters is two segments at 67 each", func(t *testing.T) {
		info := CalculateSegments(strings.Repeat("ক", 71))
		assert.Equal(t, 2, info.Segments)
		assert.Equal(t, 67, info.CharactersPerSegment)
	})

	t.Run("one bengali character poisons an ascii message", func(t *testing.T) {
		info := CalculateSegments(strings.Repeat("a", 100) + "ক")
		assert.Equal(t, EncodingUnicode, info.Encoding)
		assert.Equal(t, 101, info.Characters)
		assert.Equal(t, 2, info.Segments, "101 runes over the 70 unicode limit")
	})
}

func TestCalculateSegments_Empty(t *testing.T) {
	info := CalculateSegments("")
	assert.Equal(t, 0, info.Characters)
	assert.Equal(t, 0, info.Segments)
	assert.Equal(t, EncodingGSM, info.Encoding)
}

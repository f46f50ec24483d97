package jma

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogCoversEveryTarget(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, 47, c.Len())

	for key := range c.targets {
		_, station, _ := strings.Cut(key, "::")
		_, err := c.Transliterate(station)
		assert.NoError(t, err, key)
	}
	assert.True(t, c.Targeted("埼玉県::熊谷"))
	assert.False(t, c.Targeted("埼玉県::秩父"))
}

func TestCatalogNormalizesNames(t *testing.T) {
	// "ド" written as base kana plus combining voiced mark
	decomposed := "\u30c8\u3099"
	c, err := NewCatalog([]string{"県::\u30c9"}, map[string]string{"\u30c9": "do"})
	require.NoError(t, err)

	assert.True(t, c.Targeted("県::"+decomposed))
	en, err := c.Transliterate(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "do", en)
}

func TestParseCatalogRejectsBadTargets(t *testing.T) {
	_, err := ParseCatalog([]byte("targets: [tokyo]\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("targets: ['a::b']\ntransliterations: {b: ''}\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("targets: [unclosed"))
	assert.Error(t, err)
}

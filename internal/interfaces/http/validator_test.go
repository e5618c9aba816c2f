package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("lanka-gadgets"))
	assert.True(t, ValidSlug("shop_01"))

	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("has space"))
	assert.False(t, ValidSlug("../etc/passwd"))
	assert.False(t, ValidSlug("a'; DROP TABLE clients;--"))
	assert.False(t, ValidSlug(strings.Repeat("a", MaxSlugLength+1)))
}

func TestValidSessionID(t *testing.T) {
	assert.True(t, ValidSessionID("sess_1756700000000"))
	assert.False(t, ValidSessionID(""))
	assert.False(t, ValidSessionID(strings.Repeat("s", MaxSessionLength+1)))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("hel\x00lo"))
	assert.Equal(t, "ok", SanitizeString("ok"))
	assert.Equal(t, "ab", SanitizeString("a\xffb"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 10))
	assert.Equal(t, "abcde", TruncateString("abcdefgh", 5))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTrue(t *testing.T) {
	assert.True(t, IsTrue(ToPtr(true)))
	assert.False(t, IsTrue(ToPtr(false)))
	assert.False(t, IsTrue(nil))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", FirstNonEmpty("a", "b"))
	assert.Equal(t, "b", FirstNonEmpty("", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestDerefOr(t *testing.T) {
	assert.Equal(t, "x", DerefOr(ToPtr("x"), "fallback"))
	assert.Equal(t, "fallback", DerefOr[string](nil, "fallback"))
	assert.Equal(t, 7, DerefOr(ToPtr(7), 0))
}

package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobPreviewCapability(t *testing.T) {
	capability, err := NewGlobPreviewCapability("image/*", "text/plain", " ")
	require.NoError(t, err)

	assert.True(t, capability.SupportsPreview("image/png"))
	assert.True(t, capability.SupportsPreview("IMAGE/JPEG"))
	assert.True(t, capability.SupportsPreview("text/plain; charset=utf-8"))
	assert.False(t, capability.SupportsPreview("text/html"))
	assert.False(t, capability.SupportsPreview(""))
}

func TestGlobPreviewCapabilityRejectsBadPattern(t *testing.T) {
	_, err := NewGlobPreviewCapability("image/[")
	require.Error(t, err)
	assert.Panics(t, func() { MustGlobPreviewCapability("image/[") })
}

func TestNilGlobPreviewCapability(t *testing.T) {
	var capability *GlobPreviewCapability
	assert.False(t, capability.SupportsPreview("image/png"))
}

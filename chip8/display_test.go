package chip8

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestFramebuffer_SetGet(t *testing.T) {
	var fb Framebuffer

	fb.Set(3, 4, true)
	fb.Set(Width-1, Height-1, true)

	assert.True(t, fb.Get(3, 4))
	assert.True(t, fb.Get(Width-1, Height-1))
	assert.False(t, fb.Get(4, 3))
}

func TestFramebuffer_OffGrid(t *testing.T) {
	var fb Framebuffer

	fb.Set(Width, 0, true)
	fb.Set(0, Height, true)
	fb.Set(-1, 0, true)

	assert.False(t, fb.Get(Width, 0))
	assert.False(t, fb.Get(0, Height))
	assert.False(t, fb.Get(-1, 0))
	assert.False(t, fb.Dirty())
}

func TestFramebuffer_ClearAndDirty(t *testing.T) {
	var fb Framebuffer

	fb.Set(1, 1, true)
	assert.True(t, fb.Dirty())
	assert.False(t, fb.Dirty())

	fb.Clear()
	assert.True(t, fb.Dirty())
	assert.False(t, fb.Get(1, 1))
}

func TestFramebuffer_String(t *testing.T) {
	var fb Framebuffer

	fb.Set(0, 0, true)
	fb.Set(2, 1, true)

	lines := strings.Split(fb.String(), "\n")

	assert.Equal(t, Height+1, len(lines))
	assert.Equal(t, "#"+strings.Repeat(".", Width-1), lines[0])
	assert.Equal(t, "..#"+strings.Repeat(".", Width-3), lines[1])
}

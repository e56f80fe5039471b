package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOtpCode(t *testing.T) {
	t.Run("All Boxes Filled", func(t *testing.T) {
		code := NewOtpCodeFromSlots([]string{"4", "8", "1", "5", "9", "2"})

		assert.True(t, code.IsComplete())
		assert.Equal(t, "481592", code.String())
	})

	t.Run("Pasted Box Keeps Last Digit", func(t *testing.T) {
		code := NewOtpCodeFromSlots([]string{"123"})

		assert.Equal(t, "3", code.Slots[0])
	})

	t.Run("Non Digit Box Stays Empty", func(t *testing.T) {
		code := NewOtpCodeFromSlots([]string{"1", "a", "3", "4", "5", "6"})

		assert.Equal(t, "", code.Slots[1])
		assert.False(t, code.IsComplete())
	})

	t.Run("Short Input Is Incomplete", func(t *testing.T) {
		code := NewOtpCodeFromSlots([]string{"1", "2"})

		assert.False(t, code.IsComplete())
		assert.Equal(t, "12", code.String())
	})

	t.Run("Extra Boxes Dropped", func(t *testing.T) {
		code := NewOtpCodeFromSlots([]string{"1", "2", "3", "4", "5", "6", "7"})

		assert.Equal(t, "123456", code.String())
	})
}

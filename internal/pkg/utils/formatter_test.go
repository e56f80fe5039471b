package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPhoneMask(t *testing.T) {
	t.Run("Full Number", func(t *testing.T) {
		assert.Equal(t, "809 555 1234", ApplyPhoneMask("8095551234", "XXX XXX XXXX"))
		assert.Equal(t, "809 123 4567", ApplyPhoneMask("8091234567", "XXX XXX XXXX"))
	})

	t.Run("Partial Number Has No Trailing Separator", func(t *testing.T) {
		assert.Equal(t, "80", ApplyPhoneMask("80", "XXX XXX XXXX"))
		assert.Equal(t, "809", ApplyPhoneMask("809", "XXX XXX XXXX"))
		assert.Equal(t, "809 5", ApplyPhoneMask("8095", "XXX XXX XXXX"))
	})

	t.Run("Extra Digits Dropped", func(t *testing.T) {
		assert.Equal(t, "8888 7777", ApplyPhoneMask("888877776", "XXXX XXXX"))
	})

	t.Run("Non Digits Ignored", func(t *testing.T) {
		assert.Equal(t, "99 123 4567", ApplyPhoneMask("(99) 123-4567", "XX XXX XXXX"))
	})
}

func TestFormatNationalID(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"001":            "001",
		"0011":           "001-1",
		"0011391820":     "001-1391820",
		"00113918205":    "001-1391820-5",
		"001139182059":   "001-1391820-5",
		"001-1391820-5":  "001-1391820-5",
		"001 1391820 5x": "001-1391820-5",
	}

	for input, want := range cases {
		assert.Equal(t, want, FormatNationalID(input), "input %q", input)
	}

	t.Run("Idempotent", func(t *testing.T) {
		once := FormatNationalID("00113918205")
		assert.Equal(t, once, FormatNationalID(once))
	})
}

func TestRegistrationPhoneDigits(t *testing.T) {
	assert.Equal(t, "18095551234", RegistrationPhoneDigits("+1", "809 555 1234"))
	assert.Equal(t, "593991234567", RegistrationPhoneDigits("+593", "99 123 4567"))
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0, ProgressPercent(0, 6))
	assert.Equal(t, 17, ProgressPercent(1, 6))
	assert.Equal(t, 67, ProgressPercent(4, 6))
	assert.Equal(t, 100, ProgressPercent(7, 6))
	assert.Equal(t, 0, ProgressPercent(3, 0))
}

func TestDetectPhotoType(t *testing.T) {
	t.Run("PNG", func(t *testing.T) {
		contentType, extension, ok := DetectPhotoType([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))

		assert.True(t, ok)
		assert.Equal(t, "image/png", contentType)
		assert.Equal(t, ".png", extension)
	})

	t.Run("JPEG", func(t *testing.T) {
		_, extension, ok := DetectPhotoType([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'})

		assert.True(t, ok)
		assert.Equal(t, ".jpg", extension)
	})

	t.Run("Text Rejected", func(t *testing.T) {
		_, _, ok := DetectPhotoType([]byte("not an image at all"))

		assert.False(t, ok)
	})
}

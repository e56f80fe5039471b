package models

import "strings"

const OtpSlots = 6

// OtpCode holds the six single-digit boxes of the verification screen as the
// client submits them. Per-keystroke focus handling stays on the client.
type OtpCode struct {
	Slots [OtpSlots]string `json:"slots"`
}

// NewOtpCodeFromSlots keeps the last digit of each box; a box without a digit
// stays empty. Boxes past the sixth are dropped.
func NewOtpCodeFromSlots(slots []string) OtpCode {
	var code OtpCode
	for i := 0; i < len(slots) && i < OtpSlots; i++ {
		code.Slots[i] = lastDigit(slots[i])
	}
	return code
}

func (o OtpCode) IsComplete() bool {
	for _, slot := range o.Slots {
		if slot == "" {
			return false
		}
	}
	return true
}

func (o OtpCode) String() string {
	return strings.Join(o.Slots[:], "")
}

func lastDigit(text string) string {
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] >= '0' && text[i] <= '9' {
			return string(text[i])
		}
	}
	return ""
}

package phone_test

import (
	"testing"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/phone"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"formatted us number", "+1 (555) 123-4567", "15551234567"},
		{"already canonical", "15551234567", "15551234567"},
		{"dashes only", "555-222-3333", "5552223333"},
		{"empty", "", ""},
		{"no digits", "ext. abc", ""},
		{"internal whitespace", " 555 000 1111 ", "5550001111"},
		{"sip uri", "sip:+4930123456@pbx.example.com", "4930123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"+1 (555) 123-4567", "abc", "", "0012345", "555.123.4567"}
	for _, in := range inputs {
		once := phone.Normalize(in)
		assert.Equal(t, once, phone.Normalize(once), "input %q", in)
	}
}

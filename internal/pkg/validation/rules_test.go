package validation

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCourseCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"BCM0504-15", true},
		{"CALC1", true},
		{"  NET  ", true},
		{"MCTA018-13", true},
		{"", false},
		{"   ", false},
		{"-BCM0504", false},
		{"BCM 0504", false},
		{"BCM0504;DROP", false},
		{strings.Repeat("A", 33), false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCourseCode(tt.code))
		})
	}
}

func TestRegisterAddsBindingTag(t *testing.T) {
	require.NoError(t, Register())

	type request struct {
		Code string `binding:"required,coursecode"`
	}
	assert.NoError(t, binding.Validator.ValidateStruct(request{Code: "BCM0504-15"}))
	assert.Error(t, binding.Validator.ValidateStruct(request{Code: "not a code"}))
}

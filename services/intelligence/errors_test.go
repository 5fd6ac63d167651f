package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestProviderErrorTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"context deadline", fmt.Errorf("recognize: %w", context.DeadlineExceeded), true},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "deadline"), true},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := newProviderError("speech", tt.err)
			assert.Equal(t, tt.want, pe.Timeout())
			assert.ErrorIs(t, pe, tt.err)
		})
	}
}

func TestProviderErrorMessage(t *testing.T) {
	pe := newProviderError("gemini", errors.New("quota exceeded"))
	assert.Equal(t, "gemini: quota exceeded", pe.Error())
}

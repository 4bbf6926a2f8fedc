package chroma

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "connection",
			err:      &ConnectionError{Address: "127.0.0.1:8000", Err: errors.New("connection refused")},
			expected: "cannot connect to 127.0.0.1:8000: connection refused",
		},
		{
			name:     "not found with message",
			err:      &NotFoundError{Collection: "docs", Message: "Collection [docs] does not exists"},
			expected: `collection "docs" not found: Collection [docs] does not exists`,
		},
		{
			name:     "not found",
			err:      &NotFoundError{Collection: "docs"},
			expected: `collection "docs" not found`,
		},
		{
			name:     "remote with status",
			err:      &RemoteError{Op: "list collections", StatusCode: 500, Message: "boom"},
			expected: "list collections: server returned 500: boom",
		},
		{
			name:     "remote status only",
			err:      &RemoteError{Op: "list collections", StatusCode: 502},
			expected: "list collections: server returned 502",
		},
		{
			name:     "remote transport",
			err:      &RemoteError{Op: "heartbeat", Err: errors.New("EOF")},
			expected: "heartbeat: EOF",
		},
		{
			name:     "validation",
			err:      &ValidationError{Field: "port", Value: "abc", Reason: "must be a number"},
			expected: `invalid port "abc": must be a number`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorSentinels(t *testing.T) {
	wrapped := fmt.Errorf("load chunks: %w", &NotFoundError{Collection: "docs"})

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrRemote)
	assert.True(t, IsNotFound(wrapped))

	conn := &ConnectionError{Address: "x:1", Err: &RemoteError{Op: "heartbeat", StatusCode: 401}}
	assert.ErrorIs(t, conn, ErrConnection)
	assert.ErrorIs(t, conn, ErrRemote)
	assert.False(t, IsNotFound(conn))

	assert.ErrorIs(t, &ValidationError{Field: "host"}, ErrValidation)
}

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupRoundTrip(t *testing.T) {
	for code, def := range Lookup {
		assert.Equal(t, code, def.Code)
		assert.Equal(t, def, Get(code))
	}

	unknown := Get("NOT_A_CODE")
	assert.Equal(t, "NOT_A_CODE", unknown.Code)
	assert.Equal(t, "Unexpected error", unknown.Message)
}

func TestIsSkipMessageError(t *testing.T) {
	skip := &SkipMessageError{Reason: "duplicate message"}
	assert.True(t, IsSkipMessageError(skip))
	assert.Contains(t, skip.Error(), "duplicate message")

	// 包装后也要能识别
	wrapped := fmt.Errorf("consume failed: %w", skip)
	assert.True(t, IsSkipMessageError(wrapped))

	// service 层的永久性失败经消费者再包装一层，跳过分支仍然要命中
	permanent := &SkipMessageError{Reason: "report not found: public_id=42"}
	assert.True(t, IsSkipMessageError(fmt.Errorf("failed to handle report status: %w", permanent)))

	assert.False(t, IsSkipMessageError(nil))
	assert.False(t, IsSkipMessageError(ErrInvalidToken))
	assert.False(t, IsSkipMessageError(Unauthorized))
}

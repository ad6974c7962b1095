package slider

import (
	"context"

	"CivicLink/pkg/errors"
)

// MockClient 开发环境使用的 Mock 客户端，token 非空即通过
type MockClient struct{}

func (m *MockClient) Verify(ctx context.Context, captchaVerifyParam, remoteIP, sceneID string) (bool, error) {
	if captchaVerifyParam == "" {
		return false, errors.ErrCaptchaTokenRequired
	}

	return true, nil
}

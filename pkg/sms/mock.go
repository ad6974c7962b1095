package sms

import (
	"context"

	"go.uber.org/zap"

	"CivicLink/pkg/logger"
)

// MockClient 开发环境使用的 Mock 客户端，只记日志不真正发送
type MockClient struct{}

func (m *MockClient) SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) error {
	logger.Logger.Info("[MOCK] SMS send",
		zap.String("phone", phone),
		zap.String("template", templateCode),
		zap.String("param", templateParam),
	)
	return nil
}

func (m *MockClient) SendBatch(ctx context.Context, phones []string, signName, templateCode string, templateParams []string) error {
	logger.Logger.Info("[MOCK] Batch SMS send",
		zap.Int("count", len(phones)),
		zap.String("template", templateCode),
	)
	return nil
}

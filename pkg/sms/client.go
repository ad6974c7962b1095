package sms

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"CivicLink/config"
	"CivicLink/pkg/logger"
)

// Client SMS 客户端接口
// 报障状态通知走这里，签名和模板由配置决定
type Client interface {
	// SendSingle 发送单条短信
	// templateParam 是模板参数（JSON 字符串）
	SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) error

	// SendBatch 批量发送短信
	// templateParams 与 phones 一一对应
	SendBatch(ctx context.Context, phones []string, signName, templateCode string, templateParams []string) error
}

var (
	smsClient Client
	smsOnce   sync.Once
	smsErr    error
)

// Init 初始化 SMS 客户端
func Init() error {
	smsOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.SMSProvider {
		case "aliyun":
			smsClient, smsErr = NewAliyunClient()
		case "mock":
			smsClient = &MockClient{}
		default:
			smsErr = fmt.Errorf("unsupported SMS provider: %s", cfg.SMSProvider)
		}

		if smsErr != nil {
			logger.Logger.Error("Failed to initialize SMS client", zap.Error(smsErr))
			return
		}

		logger.Logger.Info("SMS client initialized successfully",
			zap.String("provider", cfg.SMSProvider),
		)
	})

	return smsErr
}

// GetClient 获取已初始化的客户端，未初始化返回 nil
func GetClient() Client {
	return smsClient
}

package slider

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"CivicLink/config"
	"CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
)

// Client 滑块验证客户端接口
// 匿名报障接口超过阈值后要求滑块验证，防止脚本刷单
type Client interface {
	// Verify 验证滑块 token
	// captchaVerifyParam: 前端滑块组件返回的验证参数
	// remoteIP: 仅用于日志
	// sceneID: 对应的业务场景
	Verify(ctx context.Context, captchaVerifyParam, remoteIP, sceneID string) (bool, error)
}

var (
	sliderClient Client
	sliderOnce   sync.Once
	sliderErr    error
)

// Init 初始化滑块验证客户端
func Init() error {
	sliderOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.CaptchaProvider {
		case "aliyun":
			sliderClient, sliderErr = NewAliyunClient()
		case "none":
			sliderClient = &MockClient{}
			sliderErr = nil
		default:
			sliderErr = fmt.Errorf("%w: %s", errors.ErrUnsupportedCaptchaProvider, cfg.CaptchaProvider)
		}

		if sliderErr != nil {
			logger.Logger.Error("Failed to initialize slider client", zap.Error(sliderErr))
			return
		}

		logger.Logger.Info("Slider client initialized successfully",
			zap.String("provider", cfg.CaptchaProvider),
		)
	})

	return sliderErr
}

// GetClient 获取已初始化的客户端
func GetClient() Client {
	return sliderClient
}

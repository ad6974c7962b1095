package sms

import (
	"context"
	"encoding/json"
	"fmt"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	openapiutil "github.com/alibabacloud-go/openapi-util/service"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	credential "github.com/aliyun/credentials-go/credentials"
	"go.uber.org/zap"

	"CivicLink/pkg/logger"
)

type AliyunClient struct {
	client *openapi.Client
}

// NewAliyunClient 创建阿里云 SMS 客户端
// AccessKey 通过环境变量 ALIBABA_CLOUD_ACCESS_KEY_ID / SECRET 自动获取
func NewAliyunClient() (*AliyunClient, error) {
	cred, err := credential.NewCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun credential: %w", err)
	}

	openapiConfig := &openapi.Config{
		Credential: cred,
		Endpoint:   tea.String("dysmsapi.aliyuncs.com"),
	}

	client, err := openapi.NewClient(openapiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun client: %w", err)
	}

	return &AliyunClient{
		client: client,
	}, nil
}

// createApiInfo 创建 API 信息
func (c *AliyunClient) createApiInfo(action string) *openapi.Params {
	return &openapi.Params{
		Action:      tea.String(action),
		Version:     tea.String("2017-05-25"),
		Protocol:    tea.String("HTTPS"),
		Method:      tea.String("POST"),
		AuthType:    tea.String("AK"),
		Style:       tea.String("RPC"),
		Pathname:    tea.String("/"),
		ReqBodyType: tea.String("json"),
		BodyType:    tea.String("json"),
	}
}

// checkAPIResponse 解析 CallApi 的返回，非 OK 的业务码转成错误
func checkAPIResponse(resp map[string]interface{}) error {
	if resp["statusCode"] != nil {
		if statusCode, ok := resp["statusCode"].(int); ok && statusCode != 200 {
			return fmt.Errorf("SMS API error: statusCode=%d", statusCode)
		}
	}

	if resp["body"] == nil {
		return nil
	}

	bodyBytes, _ := json.Marshal(resp["body"])
	var bodyMap map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &bodyMap); err != nil {
		return nil
	}

	if code, ok := bodyMap["Code"].(string); ok && code != "OK" {
		message := ""
		if msg, ok := bodyMap["Message"].(string); ok {
			message = msg
		}
		return fmt.Errorf("SMS send failed: %s - %s", code, message)
	}

	return nil
}

// SendSingle 发送单条短信
func (c *AliyunClient) SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) error {
	if signName == "" {
		return fmt.Errorf("signName is required")
	}
	if templateCode == "" {
		return fmt.Errorf("templateCode is required")
	}

	params := c.createApiInfo("SendSms")

	queries := map[string]interface{}{
		"PhoneNumbers":  tea.String(phone),
		"SignName":      tea.String(signName),
		"TemplateCode":  tea.String(templateCode),
		"TemplateParam": tea.String(templateParam),
	}

	runtime := &util.RuntimeOptions{}
	request := &openapi.OpenApiRequest{
		Query: openapiutil.Query(queries),
	}

	resp, err := c.client.CallApi(params, request, runtime)
	if err != nil {
		logger.Logger.Error("Failed to send SMS",
			zap.String("phone", phone),
			zap.String("template", templateCode),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if err := checkAPIResponse(resp); err != nil {
		logger.Logger.Error("SMS API returned error",
			zap.String("phone", phone),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("SMS sent successfully",
		zap.String("phone", phone),
		zap.String("template", templateCode),
	)

	return nil
}

// SendBatch 批量发送短信
// 阿里云 SendBatchSms 要求手机号、签名、模板参数都是等长的 JSON 数组
func (c *AliyunClient) SendBatch(ctx context.Context, phones []string, signName, templateCode string, templateParams []string) error {
	if signName == "" {
		return fmt.Errorf("signName is required")
	}
	if templateCode == "" {
		return fmt.Errorf("templateCode is required")
	}
	if len(phones) == 0 {
		return fmt.Errorf("phones list is empty")
	}
	if len(templateParams) != len(phones) {
		return fmt.Errorf("templateParams count (%d) must match phones count (%d)", len(templateParams), len(phones))
	}

	phoneNumbersJSON, err := json.Marshal(phones)
	if err != nil {
		return fmt.Errorf("failed to marshal phone numbers: %w", err)
	}

	// 所有手机号使用相同的签名
	signNames := make([]string, len(phones))
	for i := range signNames {
		signNames[i] = signName
	}
	signNamesJSON, err := json.Marshal(signNames)
	if err != nil {
		return fmt.Errorf("failed to marshal sign names: %w", err)
	}

	// templateParams 已经是 JSON 字符串，不是 JSON 的包装一层
	templateParamsArray := make([]string, len(templateParams))
	for i, param := range templateParams {
		var testJSON interface{}
		if err := json.Unmarshal([]byte(param), &testJSON); err != nil {
			templateParamsArray[i] = fmt.Sprintf(`{"param":"%s"}`, param)
		} else {
			templateParamsArray[i] = param
		}
	}
	templateParamsJSON, err := json.Marshal(templateParamsArray)
	if err != nil {
		return fmt.Errorf("failed to marshal template params: %w", err)
	}

	params := c.createApiInfo("SendBatchSms")

	queries := map[string]interface{}{
		"PhoneNumberJson":   tea.String(string(phoneNumbersJSON)),
		"SignNameJson":      tea.String(string(signNamesJSON)),
		"TemplateCode":      tea.String(templateCode),
		"TemplateParamJson": tea.String(string(templateParamsJSON)),
	}

	runtime := &util.RuntimeOptions{}
	request := &openapi.OpenApiRequest{
		Query: openapiutil.Query(queries),
	}

	resp, err := c.client.CallApi(params, request, runtime)
	if err != nil {
		logger.Logger.Error("Failed to send batch SMS",
			zap.Int("count", len(phones)),
			zap.String("template", templateCode),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send batch SMS: %w", err)
	}

	if err := checkAPIResponse(resp); err != nil {
		logger.Logger.Error("Batch SMS API returned error",
			zap.Int("count", len(phones)),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Batch SMS sent successfully",
		zap.Int("count", len(phones)),
		zap.String("template", templateCode),
	)

	return nil
}

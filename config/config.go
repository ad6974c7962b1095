package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"civiclink"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"civiclink"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`
	// 只读副本，公开透明度查询走这里，留空则复用主库
	PostgreSQLReplicaHost string `env:"POSTGRESQL_REPLICA_HOST" envDefault:""`
	PostgreSQLReplicaPort string `env:"POSTGRESQL_REPLICA_PORT" envDefault:"5432"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"clink"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT 配置
	JWTSecret        string `env:"JWT_SECRET"` // 必填，用于签名 JWT
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// 会话 / CSRF 配置，员工控制台用
	SessionSecret string `env:"SESSION_SECRET" envDefault:"civiclink-session"`
	CSRFSecret    string `env:"CSRF_SECRET" envDefault:"civiclink-csrf"`

	// 短信服务配置
	// 注意：AccessKey 和 SecretKey 通过阿里云 SDK 的环境变量自动获取
	// 需要设置环境变量：ALIBABA_CLOUD_ACCESS_KEY_ID 和 ALIBABA_CLOUD_ACCESS_KEY_SECRET
	SMSProvider     string `env:"SMS_PROVIDER" envDefault:"mock"` // aliyun, mock
	SMSSignName     string `env:"SMS_SIGN_NAME"`
	SMSTemplateCode string `env:"SMS_TEMPLATE_CODE"`

	// 密码哈希盐值
	PasswordHashSalt string `env:"PASSWORD_HASH_SALT"`

	// 报障人手机号加密与哈希
	EncryptionKey string `env:"ENCRYPTION_KEY"` // 32 字节原始字符串，直接作为 AES-256-GCM 密钥
	PhoneHashSalt string `env:"PHONE_HASH_SALT"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	OTLPEndpoint  string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
	TracingSample float64 `env:"TRACING_SAMPLER" envDefault:"0.1"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"100"` // 每秒请求数

	// 滑块验证配置，公开报障接口防刷
	CaptchaProvider        string `env:"CAPTCHA_PROVIDER" envDefault:"none"` // aliyun, none
	CaptchaSceneID         string `env:"CAPTCHA_SCENE_ID"`
	CaptchaSliderThreshold int    `env:"CAPTCHA_SLIDER_THRESHOLD" envDefault:"3"` // 同一 IP 超过此次数需要滑块验证

	// 引导流程配置
	OnboardingCacheTTLHours int `env:"ONBOARDING_CACHE_TTL_HOURS" envDefault:"72"` // 向导兜底缓存保留时长

	// SLA 扫描配置
	SLAScanIntervalMinutes int `env:"SLA_SCAN_INTERVAL_MINUTES" envDefault:"15"`

	// 透明度指标缓存
	MetricsCacheTTLMinutes int `env:"METRICS_CACHE_TTL_MINUTES" envDefault:"10"`
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	if Cfg.PasswordHashSalt == "" {
		log.Fatal("PASSWORD_HASH_SALT is required")
	}

	// AES-256 要求 32 字节密钥，长度不对 aes.NewCipher 到运行期才会失败
	if Cfg.EncryptionKey != "" && len(Cfg.EncryptionKey) != 32 {
		log.Fatal("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}
	if Cfg.EncryptionKey == "" {
		log.Printf("WARN: ENCRYPTION_KEY is not set, reporter phone encryption will fail")
	}

	if Cfg.SMSSignName == "" {
		log.Printf("WARN: SMS_SIGN_NAME is not set, SMS service may not work properly")
	}
	if Cfg.SMSTemplateCode == "" {
		log.Printf("WARN: SMS_TEMPLATE_CODE is not set, SMS service may not work properly")
	}

	if Cfg.CaptchaProvider == "aliyun" && Cfg.CaptchaSceneID == "" {
		log.Printf("WARN: CAPTCHA_SCENE_ID is not set, slider verification will not work")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetReplicaDSN() string {
	host := c.PostgreSQLReplicaHost
	port := c.PostgreSQLReplicaPort
	if host == "" {
		host = c.PostgreSQLHost
		port = c.PostgreSQLPort
	}
	return "host=" + host +
		" port=" + port +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

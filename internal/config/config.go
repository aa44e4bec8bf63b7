package config

import (
	"github.com/ninja0404/wallet-mirror/internal/copytrade"
	"github.com/ninja0404/wallet-mirror/internal/helius"
	"github.com/ninja0404/wallet-mirror/internal/ingest"
	"github.com/ninja0404/wallet-mirror/internal/pricing"
	"github.com/ninja0404/wallet-mirror/pkg/config"
	"github.com/ninja0404/wallet-mirror/pkg/config/source"
	"github.com/ninja0404/wallet-mirror/pkg/config/source/file"
	"github.com/ninja0404/wallet-mirror/pkg/database/polardbx"
	"github.com/ninja0404/wallet-mirror/pkg/logger"
	"github.com/ninja0404/wallet-mirror/pkg/mq/kafka"
)

// AppConfig 应用配置结构
type AppConfig struct {
	Logger    LoggerConfig         `yaml:"logger" json:"logger"`
	PolarX    polardbx.MysqlConfig `yaml:"polarx" json:"polarx"`
	Helius    helius.Config        `yaml:"helius" json:"helius"`
	Ingest    ingest.Config        `yaml:"ingest" json:"ingest"`
	Price     pricing.Config       `yaml:"price" json:"price"`
	Kafka     KafkaConfig          `yaml:"kafka" json:"kafka"`
	CopyTrade copytrade.Config     `yaml:"copy_trade" json:"copy_trade"`
	Notifier  NotifierConfig       `yaml:"notifier" json:"notifier"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Output     string `yaml:"output" json:"output"`
	Debug      bool   `yaml:"debug" json:"debug"`
	Level      string `yaml:"level" json:"level"`
	AddCaller  bool   `yaml:"add_caller" json:"add_caller"`
	CallerSkip int    `yaml:"caller_skip" json:"caller_skip"`
}

// KafkaConfig 跟单消息投递的 Kafka 配置
type KafkaConfig struct {
	Brokers  []string                  `yaml:"brokers" json:"brokers"`
	Producer kafka.KafkaProducerConfig `yaml:"producer" json:"producer"`
}

// NotifierConfig 批处理结果推送配置
type NotifierConfig struct {
	Feishu FeishuConfig `yaml:"feishu" json:"feishu"`
}

// FeishuConfig 飞书推送配置
type FeishuConfig struct {
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
}

// Manager 配置管理器
type Manager struct {
	config *AppConfig
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	return &Manager{}
}

// Load 加载配置文件
func (m *Manager) Load(configPath string) error {
	err := config.Load(file.NewSource(
		file.WithPath(configPath),
		source.WithFormat("yaml"),
	))
	if err != nil {
		return err
	}

	var appConfig AppConfig
	err = config.Scan(&appConfig)
	if err != nil {
		return err
	}

	m.config = &appConfig
	return nil
}

// GetAppConfig 获取应用配置
func (m *Manager) GetAppConfig() *AppConfig {
	return m.config
}

// GetHeliusConfig 获取 Helius 客户端配置
func (m *Manager) GetHeliusConfig() helius.Config {
	return m.config.Helius
}

// GetIngestConfig 获取批处理配置
func (m *Manager) GetIngestConfig() ingest.Config {
	return m.config.Ingest
}

// GetPriceConfig 获取报价服务配置
func (m *Manager) GetPriceConfig() pricing.Config {
	return m.config.Price
}

// GetKafkaConfig 获取 Kafka 配置
func (m *Manager) GetKafkaConfig() KafkaConfig {
	return m.config.Kafka
}

// GetCopyTradeConfig 获取跟单触发配置
func (m *Manager) GetCopyTradeConfig() copytrade.Config {
	return m.config.CopyTrade
}

// GetDatabaseConfig 获取数据库配置
func (m *Manager) GetDatabaseConfig() polardbx.MysqlConfig {
	return m.config.PolarX
}

// GetFeishuWebhookURL 获取飞书 Webhook URL
func (m *Manager) GetFeishuWebhookURL() string {
	return m.config.Notifier.Feishu.WebhookURL
}

// InitLogger 初始化日志系统
func (m *Manager) InitLogger() error {
	loggerConfig := logger.FromConfig("logger")
	loggerInstance := loggerConfig.Build()
	logger.SetDefault(loggerInstance)
	logger.SetDefaultL1(loggerInstance)
	return nil
}

package app

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/ninja0404/wallet-mirror/internal/config"
	"github.com/ninja0404/wallet-mirror/internal/copytrade"
	"github.com/ninja0404/wallet-mirror/internal/helius"
	"github.com/ninja0404/wallet-mirror/internal/ingest"
	"github.com/ninja0404/wallet-mirror/internal/notifier"
	"github.com/ninja0404/wallet-mirror/internal/pricing"
	"github.com/ninja0404/wallet-mirror/internal/repo"
	"github.com/ninja0404/wallet-mirror/internal/swap"
	"github.com/ninja0404/wallet-mirror/pkg/database/polardbx"
	"github.com/ninja0404/wallet-mirror/pkg/logger"
	"github.com/ninja0404/wallet-mirror/pkg/mq/kafka"
)

// Application 钱包跟单回溯应用
type Application struct {
	configManager *config.Manager
	db            *gorm.DB

	heliusClient *helius.Client
	ingestor     *ingest.Ingestor

	positionRepo repo.PositionRepo
	tradeRepo    repo.TradeRepo
	trackedRepo  repo.TrackedWalletRepo
}

// New 创建应用实例
func New() *Application {
	return &Application{
		configManager: config.NewManager(),
	}
}

// Initialize 初始化应用
func (app *Application) Initialize(configPath string) error {
	// 1. 加载配置
	if err := app.configManager.Load(configPath); err != nil {
		return err
	}

	// 2. 初始化日志系统
	if err := app.configManager.InitLogger(); err != nil {
		return err
	}
	logger.Info("🚀 钱包回溯服务初始化开始", logger.String("config_path", configPath))

	// 3. 初始化数据库
	if err := app.initDatabase(); err != nil {
		return err
	}

	// 4. 初始化 Kafka producer（跟单触发通道）
	kafkaCfg := app.configManager.GetKafkaConfig()
	if err := kafka.SetupKafkaProducer(kafkaCfg.Brokers, kafkaCfg.Producer); err != nil {
		return err
	}
	logger.Info("📨 Kafka producer 已就绪", logger.Any("brokers", kafkaCfg.Brokers))

	// 5. 组装批处理器
	app.setupIngestor()

	logger.Info("✅ 钱包回溯服务初始化完成")
	return nil
}

// initDatabase 初始化数据库连接
func (app *Application) initDatabase() error {
	if err := polardbx.SetupDatabaseFromDefaultConfig(); err != nil {
		return err
	}

	db, err := polardbx.GetDb()
	if err != nil {
		return err
	}
	app.db = db

	app.positionRepo = repo.NewPositionRepo(db)
	app.tradeRepo = repo.NewTradeRepo(db)
	app.trackedRepo = repo.NewTrackedWalletRepo(db)

	logger.Info("📊 数据库连接已建立")
	return nil
}

// setupIngestor 组装推导策略链与批处理器
func (app *Application) setupIngestor() {
	app.heliusClient = helius.NewClient(app.configManager.GetHeliusConfig())

	ingestCfg := app.configManager.GetIngestConfig()

	// 三级推导：显式事件 → 转账净流量 → 重取后重试
	explicit := swap.NewExplicitStrategy()
	delta := swap.NewDeltaStrategy(ingestCfg.AssetOfInterest)
	chain := swap.NewChain(
		explicit,
		delta,
		swap.NewHydrateStrategy(app.heliusClient, explicit, delta),
	)

	priceSrc := pricing.NewHTTPSource(app.configManager.GetPriceConfig())
	executor := copytrade.NewKafkaExecutor(app.configManager.GetCopyTradeConfig())

	app.ingestor = ingest.NewIngestor(
		app.heliusClient,
		chain,
		app.heliusClient,
		priceSrc,
		app.positionRepo,
		app.tradeRepo,
		app.trackedRepo,
		executor,
		ingestCfg,
	)

	logger.Info("🧩 批处理器已组装",
		logger.Int("max_age_hours", ingestCfg.MaxAgeHours),
		logger.Int("max_count", ingestCfg.MaxCount),
		logger.String("asset_of_interest", ingestCfg.AssetOfInterest))
}

// Run 执行一轮批处理：对全部处于跟踪状态的钱包做历史回溯。
// 不同钱包并发执行是安全的，各自只写自己的 (wallet, token) 账本键。
func (app *Application) Run() error {
	wallets, err := app.trackedRepo.ListActive()
	if err != nil {
		return err
	}
	if len(wallets) == 0 {
		logger.Warn("没有处于跟踪状态的钱包，本轮无事可做")
		return nil
	}

	concurrency := app.configManager.GetIngestConfig().Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	logger.Info("🎯 开始钱包历史回溯",
		logger.Int("wallets", len(wallets)),
		logger.Int("concurrency", concurrency))

	webhookURL := app.configManager.GetFeishuWebhookURL()

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	var mu sync.Mutex
	var merr error

	for _, w := range wallets {
		wg.Add(1)
		sem <- struct{}{}

		go func(address string) {
			defer wg.Done()
			defer func() { <-sem }()

			summary, err := app.ingestor.IngestWallet(context.Background(), address)
			if err != nil {
				logger.Error("❌ 钱包回溯失败",
					logger.String("address", address),
					logger.FieldErr(err))
				mu.Lock()
				merr = multierror.Append(merr, err)
				mu.Unlock()
				return
			}

			if webhookURL != "" {
				if nerr := notifier.SendToLark(notifier.BuildRunSummaryText(summary), webhookURL); nerr != nil {
					logger.Warn("推送批处理结果失败", logger.FieldErr(nerr))
				}
			}
		}(w.WalletAddress)
	}

	wg.Wait()
	return merr
}

// Shutdown 优雅关闭应用
func (app *Application) Shutdown() {
	logger.Info("🛑 开始关闭钱包回溯服务...")

	if err := kafka.CloseProducer(); err != nil {
		logger.Error("关闭 Kafka producer 失败", logger.FieldErr(err))
	}

	if err := polardbx.Stop(); err != nil {
		logger.Error("关闭数据库连接失败", logger.FieldErr(err))
	}

	logger.Info("✨ 钱包回溯服务已成功关闭")
}

// Start 启动应用的便捷方法：初始化、跑完一轮批处理、收尾
func (app *Application) Start(configPath string) error {
	if err := app.Initialize(configPath); err != nil {
		logger.Error("❌ 钱包回溯服务初始化失败", logger.FieldErr(err))
		return err
	}

	runErr := app.Run()
	app.Shutdown()

	if runErr != nil {
		logger.Error("❌ 本轮批处理存在失败的钱包", logger.FieldErr(runErr))
	}
	return runErr
}

// GetIngestor 获取批处理器（调试用）
func (app *Application) GetIngestor() *ingest.Ingestor {
	return app.ingestor
}

// GetDatabase 获取数据库连接
func (app *Application) GetDatabase() *gorm.DB {
	return app.db
}

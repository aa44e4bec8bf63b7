package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ninja0404/wallet-mirror/internal/app"
	"github.com/ninja0404/wallet-mirror/pkg/utils"
)

func main() {
	// .env 提供 HELIUS_API_KEY 等凭证，不存在时忽略
	_ = godotenv.Load()

	configPath := utils.GetConfigFilePath()
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	// 创建应用实例
	application := app.New()

	// 启动应用
	if err := application.Start(configPath); err != nil {
		fmt.Printf("应用启动失败: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"wisefido-node/internal/config"
	"wisefido-node/internal/logger"
	"wisefido-node/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化Logger
	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format, "wisefido-node")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting wisefido-node service",
		zap.String("version", "1.0.0"),
		zap.String("sink", cfg.Telemetry.Sink),
		zap.String("client_id", cfg.Node.ClientID),
	)

	// 创建服务
	// 硬件驱动（传感器总线、扫描器、指示灯）由具体平台的嵌入方注入；
	// 缺省时节点以降级模式运行（无运动检测，在场保持unknown）
	nodeService, err := service.NewNodeService(cfg, zapLogger, service.Drivers{})
	if err != nil {
		zapLogger.Fatal("Failed to create node service", zap.Error(err))
	}

	// 启动服务
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := nodeService.Start(ctx); err != nil {
		zapLogger.Fatal("Failed to start node service", zap.Error(err))
	}

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	zapLogger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	// 优雅关闭
	cancel()
	if err := nodeService.Stop(ctx); err != nil {
		zapLogger.Error("Error during shutdown", zap.Error(err))
	}

	zapLogger.Info("Service stopped")
}

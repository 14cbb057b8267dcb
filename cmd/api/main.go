package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sngm3741/nasam-site/internal/config"
	"github.com/sngm3741/nasam-site/internal/logging"
	"github.com/sngm3741/nasam-site/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var client *mongo.Client
	if cfg.StoreConfigured() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		client, err = mongo.Connect(ctx, clientOptions)
		cancel()
		if err != nil {
			logger.Fatal("MongoDB 接続に失敗しました", zap.Error(err))
		}
	} else {
		logger.Warn("MONGO_URI が未設定のため既定コンテンツで起動します")
	}

	app, err := server.New(cfg, client, logger)
	if err != nil {
		logger.Fatal("サーバーの初期化に失敗しました", zap.Error(err))
	}
	if err := app.Run(); err != nil {
		logger.Fatal("サーバーが異常終了しました", zap.Error(err))
	}
}

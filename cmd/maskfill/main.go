package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Meesho/BharatMLStack/maskfill/internal/cache"
	"github.com/Meesho/BharatMLStack/maskfill/internal/config"
	"github.com/Meesho/BharatMLStack/maskfill/internal/handler/fillmask"
	"github.com/Meesho/BharatMLStack/maskfill/internal/server/grpc"
	httpserver "github.com/Meesho/BharatMLStack/maskfill/internal/server/http"
	"github.com/Meesho/BharatMLStack/maskfill/internal/server/mux"
	"github.com/Meesho/BharatMLStack/maskfill/internal/tokenizer"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/clients/predator"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/logger"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/metric"
	"github.com/rs/zerolog/log"
	_ "go.uber.org/automaxprocs"
)

const (
	resultCacheName        = "fillmask_result_cache"
	readinessCheckInterval = 10 * time.Second
)

func main() {
	appConfig := config.GetAppConfig()
	config.InitConfig(appConfig)
	cfg := appConfig.Configs

	logger.Init()
	metric.Init()

	bert, err := tokenizer.NewBert(cfg.TokenizerConfig())
	if err != nil {
		log.Panic().Err(err).Msg("Failed to load tokenizer")
	}
	client := predator.InitClient(predator.Version1, cfg.PredatorConfig())
	if closer, ok := client.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close predator connection")
			}
		}()
	}

	var resultCache fillmask.ResultCache
	if cfg.CacheEnabled {
		c := cache.New(resultCacheName, cfg.CacheSizeInBytes, cfg.CacheTTLSec)
		defer c.Close()
		resultCache = c
	}
	handler := fillmask.NewHandler(bert, client, resultCache, cfg.FillMaskConfig())

	httpserver.Init(cfg, handler)
	grpc.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go grpc.Instance().WatchReadiness(ctx, handler, readinessCheckInterval)

	server, err := mux.Init(cfg.ListenAddr())
	if err != nil {
		log.Panic().Err(err).Msgf("Failed to listen on %s", cfg.ListenAddr())
	}
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down maskfill server")
		grpc.Instance().GRPCServer.Stop()
		if err := server.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close listener")
		}
	}()

	log.Info().Msgf("Starting %s on port %d, predator at %s:%s", cfg.AppName, cfg.AppPort, cfg.PredatorHost, cfg.PredatorPort)
	if err := server.Run(httpserver.Instance(), grpc.Instance().GRPCServer); err != nil {
		log.Panic().Err(err).Msg("Error running maskfill server")
	}
}

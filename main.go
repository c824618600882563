package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chaos-io/cutout/codec"
	"github.com/chaos-io/cutout/compose"
	"github.com/chaos-io/cutout/config"
	"github.com/chaos-io/cutout/cutout"
	"github.com/chaos-io/cutout/rembg"
	"github.com/chaos-io/cutout/server"
	"github.com/chaos-io/cutout/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run 返回前执行所有 defer，退出码由 main 决定
func run() error {
	var (
		configPath = flag.String("config", "config.yaml", "config file")
		serve      = flag.Bool("serve", false, "run the HTTP API")
		inputPath  = flag.String("in", "", "input image path or URL")
		outputDir  = flag.String("out", "./output", "output directory")
		maskPath   = flag.String("mask", "", "optional foreground mask from a segmentation model")
		background = flag.String("bg", "transparent", "background color: transparent, name or #rrggbb")
		trim       = flag.Bool("trim", false, "crop to the subject")
		force      = flag.Bool("force", false, "re-matte images that already have transparency")
	)
	flag.Parse()

	cfg := config.New(*configPath)

	if err := util.InitLogger(cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer util.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		util.Logger.Error("failed to build service", zap.Error(err))
		return err
	}
	defer cleanup()

	if *serve {
		return runServer(ctx, cfg, service)
	}

	if *inputPath == "" {
		flag.Usage()
		return errors.New("missing -in")
	}
	if err := runOnce(ctx, service, *inputPath, *maskPath, *outputDir, *background, *trim, *force); err != nil {
		util.Logger.Error("failed to remove background", zap.Error(err))
		return err
	}
	return nil
}

func buildService(ctx context.Context, cfg *config.Config) (*cutout.Service, func(), error) {
	var cleanups []func()

	imgCodec, err := codec.New(cfg.Matting.Codec)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid codec: %w", err)
	}

	opts := []cutout.Option{
		cutout.WithCodec(imgCodec),
		cutout.WithMaxDimension(cfg.Matting.MaxDimension),
	}

	if cfg.Remote.Enabled {
		opts = append(opts, cutout.WithRemover(rembg.NewRemoteRemover(cfg.Remote.URL, cfg.Remote.SizeHint, cfg.Remote.Timeout)))
	}

	if cfg.Model.Enabled {
		loader := rembg.HTTPLoader(cfg.Model.URL, cfg.Model.HealthURL, cfg.Model.Timeout)
		// 加载失败不影响启动，启发式算法兜底，定时任务会重试
		model, _ := rembg.Load(ctx, cfg.Model.Name, loader)
		opts = append(opts, cutout.WithModel(model))

		scheduler := cutout.NewScheduler(model, cfg.Model.Timeout)
		if err := scheduler.Start(cfg.Model.ReloadSpec); err != nil {
			util.Logger.Warn("failed to schedule model reload", zap.Error(err))
		} else {
			cleanups = append(cleanups, scheduler.Stop)
		}
		cleanups = append(cleanups, model.Release)
	}

	if cfg.Redis.Enabled {
		cache := cutout.NewRedisCache(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), cfg.Redis.TTL)
		if err := cache.Ping(ctx); err != nil {
			util.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
			_ = cache.Close()
		} else {
			util.Logger.Info("redis connected successfully")
			opts = append(opts, cutout.WithCache(cache))
			cleanups = append(cleanups, func() { _ = cache.Close() })
		}
	}

	return cutout.NewService(cfg.Matting.Options, opts...), func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}, nil
}

func runServer(ctx context.Context, cfg *config.Config, service *cutout.Service) error {
	gin.SetMode(cfg.Server.Mode)
	srv := server.NewHTTPServer(cfg, server.NewRouter(cfg, service))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	util.Logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("version", server.Version))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		util.Logger.Error("failed to start server", zap.Error(err))
		return err
	}
	return nil
}

func runOnce(ctx context.Context, service *cutout.Service, inputPath, maskPath, outputDir, background string, trim, force bool) error {
	bg, err := compose.ParseColor(background)
	if err != nil {
		return err
	}

	data, err := util.ReadImage(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	req := &cutout.Request{Data: data, Background: bg, Trim: trim, Force: force}
	if maskPath != "" {
		if req.Mask, err = os.ReadFile(maskPath); err != nil {
			return fmt.Errorf("load mask: %w", err)
		}
	}

	resp, err := service.Process(ctx, req)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return err
	}
	outPath := filepath.Join(outputDir, util.NewID()+"_cutout.png")
	if err := os.WriteFile(outPath, resp.PNG, 0o644); err != nil {
		return err
	}

	util.Logger.Info("done",
		zap.String("output", outPath),
		zap.String("source", resp.Source),
		zap.Float64("coverage", resp.Stats.Coverage))
	return nil
}

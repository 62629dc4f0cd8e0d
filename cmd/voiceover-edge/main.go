package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iabetor/voiceover/internal/config"
	"github.com/iabetor/voiceover/internal/logger"
	"github.com/iabetor/voiceover/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（为空时使用内置旁白）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("[main] 收到信号 %v，正在退出...", sig)
		cancel()
	}()

	report, err := run(ctx, cfg)
	if err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "生成旁白失败: %v\n", err)
		os.Exit(1)
	}

	logger.Infof("[main] 完成: %d/%d 个音频生成成功，输出目录 %s", report.Succeeded(), len(report.Outcomes), cfg.Output.Dir)
}

func run(ctx context.Context, cfg *config.Config) (*pipeline.Report, error) {
	engine := pipeline.NewEdgeEngine(cfg)

	tr, err := pipeline.NewTranslator(cfg)
	if err != nil {
		return nil, err
	}
	segments, err := pipeline.PrepareSegments(ctx, tr, cfg.Edge.Segments)
	if err != nil {
		return nil, err
	}

	history, err := pipeline.OpenHistory(cfg, "edge", engine.Name(), engine.Voice())
	if err != nil {
		return nil, err
	}
	defer history.Close()

	runner := pipeline.New(engine, cfg.Output.Dir, append(history.Options(), pipeline.WithSkipExisting(cfg.Output.SkipExisting))...)
	return runner.RunSegments(ctx, segments, cfg.Edge.Separator, cfg.Edge.CombinedFile)
}

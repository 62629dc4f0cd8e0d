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
	"github.com/iabetor/voiceover/internal/tts"
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

	// 监听系统信号，中断正在进行的合成
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("[main] 收到信号 %v，正在退出...", sig)
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "生成旁白失败: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	engine, err := pipeline.NewCloudEngine(cfg)
	if err != nil {
		return err
	}

	tr, err := pipeline.NewTranslator(cfg)
	if err != nil {
		return err
	}
	script, err := pipeline.PrepareScript(ctx, tr, cfg.Cloud.Script)
	if err != nil {
		return err
	}

	history, err := pipeline.OpenHistory(cfg, "cloud", tts.NameOf(engine), cfg.Cloud.Lang)
	if err != nil {
		return err
	}
	defer history.Close()

	runner := pipeline.New(engine, cfg.Output.Dir, append(history.Options(), pipeline.WithSkipExisting(cfg.Output.SkipExisting))...)
	_, err = runner.RunSingle(ctx, script, cfg.Cloud.FileName)
	return err
}

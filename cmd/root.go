package cmd

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pitchforge/internal/config"
	"pitchforge/internal/service"
	"pitchforge/internal/storage"
	"pitchforge/internal/tools"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "pitchforge",
	Short: "Generate five-slide pitch decks from a business idea",
	Long:  `Generate five-slide pitch decks (Problem, Solution, Market, Product, Team) from a short business idea.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute 命令入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", ".env", "Environment file")
	rootCmd.AddCommand(serveCmd, generateCmd)
}

// app 命令共享的依赖
type app struct {
	cfg       config.Config
	completer tools.Completer
	generator *service.SlideGenerator
	store     storage.Store
	logCloser io.Closer
}

func (r *app) Close() {
	if r.store != nil {
		r.store.Close()
	}
	if r.logCloser != nil {
		r.logCloser.Close()
	}
}

// boot 加载配置、日志、上游模型和存储
func boot(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	closer, err := config.InitLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	rt := &app{cfg: cfg, logCloser: closer}

	completer, err := service.NewCompleter(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if !completer.HasCredential() {
		logrus.WithField("provider", cfg.Provider).Warn("no API key configured, generation requests will be rejected")
	}
	rt.completer = completer
	rt.generator = service.NewSlideGenerator(completer, service.WithDelay(cfg.SlideDelay))

	rt.store, err = storage.Open(ctx, storage.Options{
		Driver:        cfg.Store.Driver,
		SQLitePath:    cfg.Store.SQLitePath,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

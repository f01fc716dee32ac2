package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pitchforge/internal/api"
	"pitchforge/internal/tools"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := rt.cfg.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		h := api.NewHandler(rt.generator, rt.store, tools.NewSlideTool(rt.completer, nil))
		srv := &http.Server{
			Addr:    addr,
			Handler: api.NewRouter(h),
		}

		// 在goroutine中启动服务器
		errCh := make(chan error, 1)
		go func() {
			logrus.WithField("addr", addr).Info("server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-quit:
		}
		logrus.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		logrus.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address, overrides PITCHFORGE_ADDR")
}

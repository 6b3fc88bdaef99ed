package serve

import (
	"context"
	"os"

	"github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/config"
	"github.com/stratastor/warren/pkg/lifecycle"
	"github.com/stratastor/warren/pkg/server"
)

var detached bool

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Warren server",
		Run:   runServe,
	}

	cmd.Flags().BoolVarP(&detached, "detach", "d", false, "Run as a daemon")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) {
	rc := config.GetConfig()
	log, err := logger.NewTag(config.NewLoggerConfig(rc), "serve")
	if err != nil {
		panic(err)
	}

	if err := config.EnsureDirectories(); err != nil {
		log.Error("Failed to create runtime directories", "err", err)
		os.Exit(1)
	}

	pidFile := config.GetPIDFilePath()
	if detached || rc.Server.Daemonize {
		dctx := &daemon.Context{
			PidFileName: pidFile,
			PidFilePerm: 0644,
			LogFileName: rc.Logs.Path,
			LogFilePerm: 0640,
			WorkDir:     "/",
			Umask:       027,
			Args:        []string{"warren", "serve"},
		}

		d, err := dctx.Reborn()
		if err != nil {
			log.Error("Failed to start daemon", "err", err)
			os.Exit(1)
		}
		if d != nil {
			log.Info("Warren is running as a daemon", "pid", d.Pid)
			return
		}
		defer dctx.Release()
	} else if err := lifecycle.EnsureSingleInstance(pidFile); err != nil {
		log.Error("Failed to start", "err", err)
		os.Exit(1)
	}

	if err := startServer(rc, log); err != nil {
		log.Error("Server exited with error", "err", err)
		os.Exit(1)
	}
}

func startServer(cfg *config.Config, log logger.Logger) error {
	server.SetGinMode(cfg.Environment)

	srvLog, err := logger.NewTag(config.NewLoggerConfig(cfg), "server")
	if err != nil {
		return err
	}
	s, err := server.New(cfg, srvLog, server.NewRunner(cfg, srvLog))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lifecycle.RegisterContextCanceller(cancel)

	// SIGHUP forces a divergence check between the exports file and the
	// NFS server.
	lifecycle.RegisterReloadHook(func() {
		if res, ok := s.AuditNow(ctx, "signal"); ok {
			log.Info("Divergence check on SIGHUP", "in_sync", res.InSync())
		}
	})

	go lifecycle.HandleSignals(ctx)

	log.Info("Starting Warren server", "port", cfg.Server.Port)
	return s.Run(ctx)
}

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/library"
	"github.com/shishobooks/folio/pkg/metadata"
	"github.com/shishobooks/folio/pkg/server"
	"github.com/shishobooks/folio/pkg/version"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting folio", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	log.Info("data directory", logger.Data{"path": cfg.DataDir})

	registry, renderer, err := metadata.NewDefaultRegistry(cfg)
	if err != nil {
		log.Err(err).Fatal("renderer error")
	}

	libraryService, err := library.OpenFromConfig(ctx, cfg, registry)
	if err != nil {
		log.Err(err).Fatal("library error")
	}
	log.Info("library opened", logger.Data{"books": len(libraryService.ListBooks(ctx))})

	if cfg.PruneOrphansOnStart {
		result, err := libraryService.PruneOrphans(ctx)
		if err != nil {
			log.Err(err).Error("prune error")
		} else {
			log.Info("pruned orphaned files", logger.Data{"count": len(result.Removed)})
		}
	}

	srv, err := server.New(cfg, libraryService)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", srv.Addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		// Extract actual port (useful when ServerPort is 0)
		actualPort := listener.Addr().(*net.TCPAddr).Port
		log.Info("server started", logger.Data{"port": actualPort})

		if err := writePortFile(actualPort); err != nil {
			log.Err(err).Error("failed to write port file")
		}

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	libraryService.Close()
	log.Info("import worker shutdown")

	err = renderer.Close()
	if err != nil {
		log.Err(err).Error("renderer close error")
	}
	log.Info("renderer closed")
}

// writePortFile writes the server's actual port to tmp/api.port for local
// tooling. Skips silently if tmp/ doesn't exist.
func writePortFile(port int) error {
	if _, err := os.Stat("tmp"); os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile("tmp/api.port", []byte(strconv.Itoa(port)), 0600)
}

// Command devapi serves an in-memory implementation of the classdesk REST API for local runs.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/trezcool/classdesk/apps/devapi/di"
	"github.com/trezcool/classdesk/apps/devapi/echo"
	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/services/logger"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		logger *logsvc.RollbarLogger,
		server *echoapi.Server,
	) {
		defer logger.Close()

		// =========================================================================
		// Start API Service

		logger.Info(fmt.Sprintf("Development API initializing : version %q", conf.Build))
		defer logger.Info("Development API stopped")

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.DevAPI.ShutdownTimeout)
			defer cancel()

			// asking listener to shutdown and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// Command classdesk is a terminal client for the classdesk learning platform.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/access"
	"github.com/trezcool/classdesk/core/assignment"
	"github.com/trezcool/classdesk/core/auth"
	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
	"github.com/trezcool/classdesk/services/gateway"
	"github.com/trezcool/classdesk/services/logger"
	"github.com/trezcool/classdesk/storage/session"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "CLI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	tp, err := newTracerProvider(conf, os.Stderr)
	if err != nil {
		logger.Fatal(fmt.Sprintf("starting tracing: %v", err), err)
	}
	if tp != nil {
		//goland:noinspection GoUnhandledErrorResult
		defer tp.Shutdown(context.Background())
	}

	store, err := sessionstore.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening session store: %v", err), err)
	}

	cli, err := newCommandLine(os.Stdout, conf, logger, store, tp)
	if err != nil {
		logger.Fatal(fmt.Sprintf("starting client: %v", err), err)
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			printError(os.Stderr, err)
		}
		if tp != nil {
			_ = tp.Shutdown(context.Background())
		}
		logger.Close()
		os.Exit(1)
	}
}

// newCommandLine wires the client; tp may be nil when tracing is off.
func newCommandLine(
	out io.Writer,
	conf *core.Config,
	logger core.Logger,
	store session.Store,
	tp *sdktrace.TracerProvider,
) (*commandLine, error) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	assignment.InitValidators(validate, translator)

	sessions := session.NewManager(store, logger)
	opts := gatewaysvc.Options{
		BaseURL:  conf.API.BaseURL,
		Timeout:  conf.API.Timeout,
		Sessions: sessions,
		Logger:   logger,
	}
	if tp != nil {
		opts.TracerProvider = tp
		opts.Propagator = propagation.TraceContext{}
	}
	gw, err := gatewaysvc.NewHTTPGateway(opts)
	if err != nil {
		return nil, err
	}

	nav := newNavigator(out)
	return &commandLine{
		out:         out,
		sessions:    sessions,
		auth:        auth.NewService(gw, sessions, validate, translator),
		assignments: assignment.NewService(gw, validate, translator),
		gate:        access.NewGate(sessions),
		coord:       access.NewCoordinator(nav, logger),
		nav:         nav,
	}, nil
}

func printError(w io.Writer, err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		fmt.Fprintln(w, "error: invalid input")
		for _, fld := range vErr.Fields {
			fmt.Fprintf(w, "  %s: %s\n", fld.Field, fld.Error)
		}
		return
	}
	fmt.Fprintf(w, "error: %s\n", err)
}

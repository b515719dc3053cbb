package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/handlers/v1/status"
	"github.com/carson-networks/finance-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/finance-server/internal/handlers/v1/user"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

const shutdownTimeout = 30 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Tokens   auth.TokenValidator
	Database pinger
}

// Routes builds the full HTTP surface: /status on the plain mux and the
// huma operations under /api, wrapped in OpenTelemetry HTTP instrumentation.
// Spans go to the global tracer provider, a no-op unless one is installed.
func (r *Rest) Routes() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Database)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, apitypes.Config("Finance Server", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))
	r.register(api)

	return otelhttp.NewHandler(mux, "finance-server")
}

func (r *Rest) register(api huma.API) {
	user.NewSignupHandler(r.Service.Auth).Register(api)
	user.NewLoginHandler(r.Service.Auth).Register(api)
	user.NewMeHandler(r.Service.Auth, r.Tokens).Register(api)

	transaction.NewCreateTransactionHandler(r.Service.Transaction, r.Tokens).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Transaction, r.Tokens).Register(api)
	transaction.NewSummaryHandler(r.Service.Transaction, r.Tokens).Register(api)
	transaction.NewUpdateTransactionHandler(r.Service.Transaction, r.Tokens).Register(api)
	transaction.NewDeleteTransactionHandler(r.Service.Transaction, r.Tokens).Register(api)
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

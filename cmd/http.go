package cmd

import (
	"context"
	"eventdesk/common"
	inboundCron "eventdesk/inbound/cron"
	inboundHttp "eventdesk/inbound/http"
	"eventdesk/outbound/sqlgen"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	shutdownTracer := newTracer(ctx, cfg)
	defer shutdownTracer()

	validate := common.NewValidator()
	printer := common.NewCurrencyPrinter(cfg.GetString("locale"))

	db := newDb(cfg)
	defer db.Close()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)

	querier := sqlgen.New(db)
	client := newBackend(cfg)
	store := newQueryStore(cfg, cacheClient)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")
		w.WriteHeader(http.StatusOK)
	})

	inboundHttp.RegisterEventHttp(mux, client, store)
	inboundHttp.RegisterDashboardHttp(mux, client, store)
	inboundHttp.RegisterVendorHttp(mux, client, store, js, validate)
	inboundHttp.RegisterPaymentHttp(mux, client, store, js, validate, printer)
	inboundHttp.RegisterReferralHttp(mux, cfg, client, store, js, validate, printer)
	inboundHttp.RegisterFormHttp(mux, client, store, js, validate)
	inboundHttp.RegisterSubmissionHttp(mux, client, store)
	inboundHttp.RegisterBadgeHttp(mux, client, store, js, validate)
	inboundHttp.RegisterAuditHttp(mux, querier)

	referralCron := inboundCron.ReferralStatsCron{
		Cfg:     cfg,
		Backend: client,
	}

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(cfg.GetDuration("server.handler_timeout"))
	authMiddleware := inboundHttp.AuthMiddleware(cfg.GetString("jwt.secret"), cfg.GetString("jwt.issuer"), "/health")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           timeoutMiddleware(inboundHttp.CorsMiddleware(authMiddleware(mux))),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      cfg.GetDuration("server.handler_timeout") + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started", slog.String("addr", srv.Addr))

	go func() {
		referralCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}

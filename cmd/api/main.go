package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/config"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/schedule"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/handler"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/repository"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/service"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/auth"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/database"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/logger"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/metrics"
	"github.com/gayatrijangid/panchakarma-booking-system/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer zlog.Sync()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			zlog.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("running migrations", zap.Error(err))
	}

	collector := metrics.NewCollector(cfg.App.Name)
	jwtManager := auth.NewJWTManager(cfg.JWT)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Instrument(ctx, db, collector); err != nil {
		zlog.Fatal("instrumenting database", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	therapyRepo := repository.NewTherapyRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, zlog)
	authSvc := service.NewAuthService(userRepo, jwtManager, zlog)
	therapySvc := service.NewTherapyService(therapyRepo)

	breaks, err := schedule.ParseBreakWindows(cfg.Slots.Breaks)
	if err != nil {
		zlog.Fatal("parsing break windows", zap.Error(err))
	}
	catalog := schedule.CatalogConfig{
		StartHour:       cfg.Slots.StartHour,
		EndHour:         cfg.Slots.EndHour,
		IntervalMinutes: cfg.Slots.IntervalMinutes,
		Breaks:          breaks,
	}
	appointmentSvc, err := service.NewAppointmentService(
		appointmentRepo, therapyRepo, catalog, cfg.Slots.AvailabilityCacheSize,
		auditSvc, collector, zlog,
	)
	if err != nil {
		zlog.Fatal("initializing appointment service", zap.Error(err))
	}

	router := handler.NewRouter(handler.Dependencies{
		Config:         cfg,
		Logger:         zlog,
		JWTManager:     jwtManager,
		Collector:      collector,
		AuthSvc:        authSvc,
		TherapySvc:     therapySvc,
		AppointmentSvc: appointmentSvc,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
	auditSvc.Shutdown()

	zlog.Info("server stopped")
}

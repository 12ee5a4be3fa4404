package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/cursedmounds/kurgan-api/internal/content"
	"github.com/cursedmounds/kurgan-api/internal/engine/chargen"
	"github.com/cursedmounds/kurgan-api/internal/engine/combat"
	runengine "github.com/cursedmounds/kurgan-api/internal/engine/run"
	bossorch "github.com/cursedmounds/kurgan-api/internal/orchestrators/boss"
	"github.com/cursedmounds/kurgan-api/internal/orchestrators/daily"
	runorch "github.com/cursedmounds/kurgan-api/internal/orchestrators/run"
	"github.com/cursedmounds/kurgan-api/internal/pkg/clock"
	"github.com/cursedmounds/kurgan-api/internal/pkg/idgen"
	"github.com/cursedmounds/kurgan-api/internal/pkg/rng"
	redisclient "github.com/cursedmounds/kurgan-api/internal/redis"
	bossrepo "github.com/cursedmounds/kurgan-api/internal/repositories/boss"
	dailycharacter "github.com/cursedmounds/kurgan-api/internal/repositories/daily_character"
	"github.com/cursedmounds/kurgan-api/internal/repositories/ledger"
	runrepo "github.com/cursedmounds/kurgan-api/internal/repositories/run"
)

var (
	grpcPort     int
	redisAddr    string
	tunablesFile string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the kurgan-api gRPC server with all configured services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address")
	serverCmd.Flags().StringVar(&tunablesFile, "tunables", "", "path to a YAML tunables file (compiled-in defaults when empty)")
}

// services holds the wired orchestrators. Handler registration happens here
// once the API surface is frozen; until then the server exposes health and
// reflection only.
type services struct {
	daily daily.Service
	run   runorch.Service
	boss  bossorch.Service
}

func buildServices() (*services, error) {
	tunables := content.Default()
	if tunablesFile != "" {
		loaded, err := content.Load(tunablesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load tunables: %w", err)
		}
		tunables = loaded
	}

	client, err := redisclient.NewClient(redisAddr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	clk := clock.New()

	charRepo, err := dailycharacter.NewRedisRepository(&dailycharacter.Config{
		Client: client,
		Clock:  clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create character repository: %w", err)
	}

	runRepository, err := runrepo.NewRedisRepository(&runrepo.Config{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create run repository: %w", err)
	}

	bossRepository, err := bossrepo.NewRedisRepository(&bossrepo.Config{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create boss repository: %w", err)
	}

	ledgerRepository, err := ledger.NewRedisRepository(&ledger.Config{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger repository: %w", err)
	}

	generator, err := chargen.New(&chargen.Config{Tunables: tunables})
	if err != nil {
		return nil, fmt.Errorf("failed to create character generator: %w", err)
	}

	resolver, err := combat.NewResolver(&combat.Config{
		Source:   rng.NewSystemSource(),
		Tunables: tunables,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create combat resolver: %w", err)
	}

	engine, err := runengine.New(&runengine.Config{Tunables: tunables})
	if err != nil {
		return nil, fmt.Errorf("failed to create run engine: %w", err)
	}

	dailyService, err := daily.NewOrchestrator(&daily.Config{
		CharacterRepo: charRepo,
		Generator:     generator,
		Clock:         clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create daily orchestrator: %w", err)
	}

	runService, err := runorch.NewOrchestrator(&runorch.Config{
		RunRepo:       runRepository,
		CharacterRepo: charRepo,
		LedgerRepo:    ledgerRepository,
		Engine:        engine,
		IDGenerator:   idgen.NewUUID("run"),
		Clock:         clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run orchestrator: %w", err)
	}

	bossService, err := bossorch.NewOrchestrator(&bossorch.Config{
		BossRepo:      bossRepository,
		CharacterRepo: charRepo,
		LedgerRepo:    ledgerRepository,
		Resolver:      resolver,
		Tunables:      tunables,
		IDGenerator:   idgen.NewUUID("boss"),
		Clock:         clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create boss orchestrator: %w", err)
	}

	return &services{
		daily: dailyService,
		run:   runService,
		boss:  bossService,
	}, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	svcs, err := buildServices()
	if err != nil {
		return err
	}
	slog.Info("Services initialized", "redis_addr", redisAddr)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	registerServices(healthServer, svcs)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("gRPC server starting", "port", grpcPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down gRPC server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// registerServices marks each wired service as serving. Proto handlers
// attach here once the wire API lands.
func registerServices(healthServer *health.Server, svcs *services) {
	for _, name := range []string{
		"kurgan.daily.v1.DailyService",
		"kurgan.run.v1.RunService",
		"kurgan.boss.v1.BossService",
	} {
		healthServer.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_SERVING)
	}
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	switch level {
	case grpc_logging.LevelError:
		slog.Error(msg, fields...)
	case grpc_logging.LevelWarn:
		slog.Warn(msg, fields...)
	default:
		slog.Info(msg, fields...)
	}
}

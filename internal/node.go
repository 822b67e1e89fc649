package internal

import (
	"chat-relay/domain/event"
	"chat-relay/infrastructure/grpc/server"
	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"errors"
	"log/slog"
	"net"

	"google.golang.org/grpc"
)

// Node is one fully wired relay: live state, background workers and gRPC surface.
type Node struct {
	log          *slog.Logger
	Orchestrator *runtime.Orchestrator
	ChatService  *services.ChatService
	GrpcServer   *grpc.Server
}

func NewNode(log *slog.Logger, config Config) (*Node, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	telemetry := make(chan event.Event, config.TelemetryBufferSize)
	counter := event.NewCounter()
	monitoring := observability.NewMonitoringManager(log, config.NodeID, counter)
	supervisor := workers.NewSupervisor(log, telemetry, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, supervisor, runtime.NewRegistry(),
		telemetry, counter, monitoring, config.MetricInterval)

	chatService := services.NewChatService(log,
		orchestrator.Registry(), orchestrator.Broadcaster(), orchestrator.Telemetry(),
		services.ChatServiceConfig{
			ConnectionBufferSize: config.ConnectionBufferSize,
			DeliveryTimeout:      config.DeliveryTimeout,
			MaxContentLength:     config.MaxContentLength,
		})

	if config.ModerationEnabled {
		charReplacement, err := CharacterRune(config.CharReplacement)
		if err != nil {
			return nil, err
		}
		moderator, err := runtime.PrepareModeration(log, charReplacement)
		if err != nil {
			return nil, err
		}
		chatService.WithModerator(moderator)
	}

	grpcServer := server.NewGrpcServer(log,
		server.NewChatServer(log, chatService),
		server.NewMonitoringServer(monitoring, chatService),
		config.EnableReflection)

	return &Node{
		log:          log,
		Orchestrator: orchestrator,
		ChatService:  chatService,
		GrpcServer:   grpcServer,
	}, nil
}

// Run starts the workers and serves gRPC on listener until ctx is done or serving fails.
// Connected sessions are ended, and later Connect calls refused, before the server drains.
func (n *Node) Run(ctx context.Context, listener net.Listener) error {
	errChan := make(chan error, 2)

	go func() {
		if err := n.Orchestrator.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	go func() {
		n.log.Info("Starting gRPC server", "address", listener.Addr().String())
		for serviceName := range n.GrpcServer.GetServiceInfo() {
			n.log.Debug("gRPC exposed service", "name", serviceName)
		}
		if err := n.GrpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- err
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		n.log.Info("Shutdown signal received")
	case err = <-errChan:
	}

	n.log.Info("Shutting down gracefully...")
	n.Orchestrator.Stop()
	n.GrpcServer.GracefulStop()
	return err
}

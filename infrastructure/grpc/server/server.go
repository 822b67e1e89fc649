package server

import (
	pb "chat-relay/proto/chat"
	"log/slog"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// NewGrpcServer registers the chat and monitoring services behind the logging interceptors.
func NewGrpcServer(log *slog.Logger, chatServer *ChatServer,
	monitoringServer *MonitoringServer, enableReflection bool) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(log)),
		grpc.ChainStreamInterceptor(StreamLoggingInterceptor(log)),
	)
	pb.RegisterChatServiceServer(s, chatServer)
	pb.RegisterMonitoringServiceServer(s, monitoringServer)
	if enableReflection {
		reflection.Register(s)
	}
	return s
}

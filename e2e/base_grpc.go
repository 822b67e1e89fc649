package e2e

import (
	"chat-relay/internal"
	pb "chat-relay/proto/chat"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/protoadapt"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config   Config
	Node     *internal.Node
	listener *bufconn.Listener
	cancel   context.CancelFunc
	done     chan error
}

// SetupSuite loads the environment configuration and, unless an external
// relay is targeted, starts one in-process on a bufconn listener.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr != "" {
		return
	}

	var config internal.Config
	err = env.Unmarshal(env.EnvSet{
		"DELIVERY_TIMEOUT":   "50ms",
		"METRIC_INTERVAL":    "100ms",
		"MODERATION_ENABLED": "true",
	}, &config)
	s.Require().NoError(err)

	s.Node, err = internal.NewNode(logs.GetLoggerFromLevel(slog.LevelDebug), config)
	s.Require().NoError(err)

	s.listener = bufconn.Listen(1024 * 1024)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() { s.done <- s.Node.Run(ctx, s.listener) }()
}

func (s *BaseGrpcSuite) TearDownSuite() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	select {
	case err := <-s.done:
		s.Require().NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("relay did not stop")
	}
}

// GrpcConn initializes a gRPC connection with logging, colors, and JSON debugging
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string) *grpc.ClientConn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	marshaler := protojson.MarshalOptions{
		UseProtoNames:   true,
		Multiline:       true,
		EmitUnpopulated: true,
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, marshaler.Format(protoadapt.MessageV2Of(req.(protoadapt.MessageV1))))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, marshaler.Format(protoadapt.MessageV2Of(reply.(protoadapt.MessageV1))))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	}

	addr := s.Config.RelayAddr
	if addr == "" {
		addr = "passthrough:///bufnet"
		opts = append(opts, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}))
	}

	conn, err := grpc.NewClient(addr, opts...)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

// WithChat provides a ChatService client within a contextual test step
func (s *BaseGrpcSuite) WithChat(name string, fn func(ctx context.Context, client pb.ChatServiceClient)) {
	conn := s.GrpcConn(s.T(), name)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fn(ctx, pb.NewChatServiceClient(conn))
}

// WithMonitoring provides a MonitoringService client within a contextual test step
func (s *BaseGrpcSuite) WithMonitoring(name string, fn func(ctx context.Context, client pb.MonitoringServiceClient)) {
	conn := s.GrpcConn(s.T(), name)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fn(ctx, pb.NewMonitoringServiceClient(conn))
}

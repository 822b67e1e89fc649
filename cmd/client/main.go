package main

import (
	pb "chat-relay/proto/chat"
	"chat-relay/terminal"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	RelayAddr string `envconfig:"RELAY_ADDR" default:"localhost:50051"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"WARN"`
	Colours   bool   `envconfig:"CLIENT_COLOURS" default:"true"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Load configuration, a local .env file is optional.
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish connection to the relay.
	conn, err := grpc.NewClient(config.RelayAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to relay at %s: %w", config.RelayAddr, err)
	}
	defer func() { _ = conn.Close() }()

	// 4. Read and send until exit.
	term := terminal.NewTerminal(log, pb.NewChatServiceClient(conn), os.Stdin, os.Stdout, config.Colours)
	if err := term.Run(ctx); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

package main

import (
	pb "chat-relay/proto/chat"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	RelayAddr string        `envconfig:"RELAY_ADDR" default:"localhost:50051"`
	Interval  time.Duration `envconfig:"VIEWER_INTERVAL" default:"2s"`
	Once      bool          `envconfig:"VIEWER_ONCE" default:"false"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Viewer error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.RelayAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to relay at %s: %w", config.RelayAddr, err)
	}
	defer func() { _ = conn.Close() }()
	client := pb.NewMonitoringServiceClient(conn)

	ticker := time.NewTicker(config.Interval)
	defer ticker.Stop()
	for {
		callCtx, cancel := context.WithTimeout(ctx, config.Interval)
		nodeStatus, err := client.GetStatus(callCtx, &emptypb.Empty{})
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("status failed: %w", err)
		}

		if !config.Once {
			// clear screen
			fmt.Print("\033[H\033[2J")
		}
		renderStatus(os.Stdout, nodeStatus)
		if config.Once {
			return exitOK, nil
		}

		select {
		case <-ctx.Done():
			return exitOK, nil
		case <-ticker.C:
		}
	}
}

func renderStatus(w io.Writer, s *pb.NodeStatus) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.AppendBulk([][]string{
		{"Node", s.GetNodeId()},
		{"PID", strconv.FormatInt(s.GetPid(), 10) + " (" + s.GetPidStatus() + ")"},
		{"Uptime", (time.Duration(s.GetUptimeSeconds()) * time.Second).String()},
		{"CPU", fmt.Sprintf("%.1f%%", s.GetCpuPercent())},
		{"RAM", fmt.Sprintf("%.1f MiB", float64(s.GetRamBytes())/(1<<20))},
		{"Messages broadcast", strconv.FormatUint(s.GetMessagesBroadcast(), 10)},
		{"Deliveries ok", strconv.FormatUint(s.GetDeliveriesOk(), 10)},
		{"Deliveries failed", strconv.FormatUint(s.GetDeliveriesFailed(), 10)},
		{"Sessions opened", strconv.FormatUint(s.GetSessionsOpened(), 10)},
		{"Sessions closed", strconv.FormatUint(s.GetSessionsClosed(), 10)},
		{"User replacements", strconv.FormatUint(s.GetUserReplacements(), 10)},
		{"Connected", strings.Join(s.GetConnectedUsers(), ", ")},
	})
	table.Render()
}

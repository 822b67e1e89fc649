package terminal

import (
	"bytes"
	"chat-relay/internal"
	pb "chat-relay/proto/chat"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startRelay(t *testing.T) (pb.ChatServiceClient, *internal.Node) {
	t.Helper()
	var config internal.Config
	err := env.Unmarshal(env.EnvSet{"DELIVERY_TIMEOUT": "50ms"}, &config)
	require.NoError(t, err)
	node, err := internal.NewNode(logs.GetLoggerFromLevel(slog.LevelDebug), config)
	require.NoError(t, err)

	listener := bufconn.Listen(1024 * 1024)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- node.Run(ctx, listener) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return pb.NewChatServiceClient(conn), node
}

func TestTerminal_SendsAndPrintsOwnMessage(t *testing.T) {
	// Given a terminal fed through a pipe
	chat, _ := startRelay(t)
	in, writer := io.Pipe()
	out := &syncBuffer{}
	term := NewTerminal(logs.GetLoggerFromLevel(slog.LevelDebug), chat, in, out, false)

	done := make(chan error, 1)
	go func() { done <- term.Run(context.Background()) }()

	// When alice writes a message
	_, err := fmt.Fprintln(writer, "alice")
	require.NoError(t, err)
	_, err = fmt.Fprintln(writer, "hello there")
	require.NoError(t, err)

	// Then the relay echoes it back to her own stream
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "alice: hello there")
	}, 2*time.Second, 10*time.Millisecond)

	// And exit ends the loop
	_, err = fmt.Fprintln(writer, "exit")
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("terminal did not stop")
	}
}

func TestTerminal_ConnectsOnceUnderFirstName(t *testing.T) {
	// Given a terminal used with two different names
	chat, node := startRelay(t)
	in, writer := io.Pipe()
	out := &syncBuffer{}
	term := NewTerminal(logs.GetLoggerFromLevel(slog.LevelDebug), chat, in, out, false)

	done := make(chan error, 1)
	go func() { done <- term.Run(context.Background()) }()

	for _, line := range []string{"alice", "one", "bob", "two"} {
		_, err := fmt.Fprintln(writer, line)
		require.NoError(t, err)
	}

	// Then only the first name is registered but both messages arrive
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "bob: two")
	}, 2*time.Second, 10*time.Millisecond)
	names := node.Orchestrator.Registry().Names()
	require.Len(t, names, 1)
	require.Equal(t, "alice", names[0].String())

	require.NoError(t, writer.Close())
	require.NoError(t, <-done)
}

func TestTerminal_InvalidFirstNameDoesNotConnect(t *testing.T) {
	// Given a terminal whose first name is empty
	chat, node := startRelay(t)
	in, writer := io.Pipe()
	out := &syncBuffer{}
	term := NewTerminal(logs.GetLoggerFromLevel(slog.LevelDebug), chat, in, out, false)

	done := make(chan error, 1)
	go func() { done <- term.Run(context.Background()) }()

	for _, line := range []string{"", "lost", "alice", "hi"} {
		_, err := fmt.Fprintln(writer, line)
		require.NoError(t, err)
	}

	// Then the empty name is rejected and the next one connects and receives
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "alice: hi")
	}, 2*time.Second, 10*time.Millisecond)
	require.Contains(t, out.String(), "rejected:")
	require.NotContains(t, out.String(), "lost")
	names := node.Orchestrator.Registry().Names()
	require.Len(t, names, 1)
	require.Equal(t, "alice", names[0].String())

	require.NoError(t, writer.Close())
	require.NoError(t, <-done)
}

func TestTerminal_ExitBeforeConnect(t *testing.T) {
	// Given a terminal
	chat, node := startRelay(t)
	out := &syncBuffer{}
	term := NewTerminal(logs.GetLoggerFromLevel(slog.LevelDebug), chat, strings.NewReader("exit\n"), out, false)

	// When the first line is exit
	err := term.Run(context.Background())

	// Then nothing was opened
	require.NoError(t, err)
	require.Zero(t, node.Orchestrator.Registry().Len())
	require.Equal(t, "name> ", out.String())
}

func TestTerminal_RejectedMessageKeepsLooping(t *testing.T) {
	// Given a terminal
	chat, _ := startRelay(t)
	out := &syncBuffer{}
	tooLong := strings.Repeat("x", 65)
	input := strings.Join([]string{"alice", "hi", tooLong, "x", "exit"}, "\n") + "\n"
	term := NewTerminal(logs.GetLoggerFromLevel(slog.LevelDebug), chat, strings.NewReader(input), out, false)

	// When a name breaks validation
	err := term.Run(context.Background())

	// Then it is reported and the loop continues to exit
	require.NoError(t, err)
	require.Contains(t, out.String(), "rejected:")
}

func TestTerminal_Format(t *testing.T) {
	term := NewTerminal(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, strings.NewReader(""), io.Discard, false)
	sentAt := time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local)

	got := term.Format(&pb.ChatMessage{UserName: "alice", Content: "hi", SentAt: sentAt.UnixNano()})

	require.Equal(t, "[15:04:05] alice: hi", got)
}

func TestColorFor_IsStable(t *testing.T) {
	require.Equal(t, colorFor("alice"), colorFor("alice"))
}

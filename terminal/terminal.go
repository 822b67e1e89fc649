// Package terminal is a line-oriented chat client: it asks for a name and a
// message on every turn and prints whatever the relay delivers.
package terminal

import (
	"bufio"
	"chat-relay/domain"
	pb "chat-relay/proto/chat"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const exitCommand = "exit"

var palette = []color.Color{
	color.FgCyan, color.FgGreen, color.FgYellow, color.FgMagenta, color.FgBlue, color.FgLightRed,
}

type Terminal struct {
	log     *slog.Logger
	chat    pb.ChatServiceClient
	in      *bufio.Scanner
	out     io.Writer
	mu      sync.Mutex
	colors  bool
	timeout time.Duration
}

func NewTerminal(log *slog.Logger, chat pb.ChatServiceClient, in io.Reader, out io.Writer, colors bool) *Terminal {
	return &Terminal{
		log:     log,
		chat:    chat,
		in:      bufio.NewScanner(in),
		out:     out,
		colors:  colors,
		timeout: 5 * time.Second,
	}
}

// Run loops until "exit", end of input or ctx is done. The stream is opened
// once, under the first valid name entered.
func (t *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	connected := false
	for {
		name, ok := t.prompt("name> ")
		if !ok {
			return nil
		}
		content, ok := t.prompt("message> ")
		if !ok {
			return nil
		}

		if !connected {
			if err := domain.UserName(name).Validate(); err != nil {
				t.println("rejected: " + err.Error())
				continue
			}
			stream, err := t.chat.Connect(ctx, &pb.ConnectRequest{UserName: name})
			if err != nil {
				return fmt.Errorf("failed to open stream: %w", err)
			}
			connected = true
			wg.Add(1)
			go func() {
				defer wg.Done()
				t.receive(ctx, stream)
			}()
		}

		sendCtx, sendCancel := context.WithTimeout(ctx, t.timeout)
		_, err := t.chat.SendMessage(sendCtx, &pb.ChatMessage{UserName: name, Content: content})
		sendCancel()
		if err != nil {
			if status.Code(err) != codes.InvalidArgument {
				return fmt.Errorf("send failed: %w", err)
			}
			t.println("rejected: " + status.Convert(err).Message())
		}
	}
}

// prompt reads the next line. False means the loop must end.
func (t *Terminal) prompt(label string) (string, bool) {
	t.print(label)
	if !t.in.Scan() {
		return "", false
	}
	line := strings.TrimSpace(t.in.Text())
	return line, line != exitCommand
}

func (t *Terminal) receive(ctx context.Context, stream pb.ChatService_ConnectClient) {
	for {
		msg, err := stream.Recv()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) {
				t.log.Warn("stream ended", "error", err)
			}
			return
		}
		t.println(t.Format(msg))
	}
}

// Format renders one delivered message, the author colored when enabled.
func (t *Terminal) Format(msg *pb.ChatMessage) string {
	author := msg.GetUserName()
	if t.colors {
		author = colorFor(author).Render(author)
	}
	return fmt.Sprintf("[%s] %s: %s",
		time.Unix(0, msg.GetSentAt()).Format(time.TimeOnly), author, msg.GetContent())
}

func colorFor(name string) color.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return palette[h.Sum32()%uint32(len(palette))]
}

func (t *Terminal) print(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, s)
}

func (t *Terminal) println(s string) {
	t.print(s + "\n")
}

package gateway

import (
	pb "chat-relay/proto/chat"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxInboundSize = 16 * 1024

// InboundMessage is what a browser sends over its WebSocket.
type InboundMessage struct {
	Content string `json:"content"`
}

// Frame is what the gateway writes to a browser: a message, or an error.
type Frame struct {
	Type    string       `json:"type"`
	Message *MessageView `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// wsConn serializes writes, gorilla connections support a single concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(frame)
}

// webSocket bridges one browser to one Connect stream. Every inbound frame
// becomes a SendMessage under the same user name.
func (g *Gateway) webSocket(w http.ResponseWriter, r *http.Request) {
	userName := r.URL.Query().Get("user_name")
	if userName == "" {
		writeJSON(w, http.StatusBadRequest, errorView{Error: "user_name is required"})
		return
	}

	socket, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	socket.SetReadLimit(maxInboundSize)
	conn := &wsConn{conn: socket}
	defer socket.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := g.chat.Connect(ctx, &pb.ConnectRequest{UserName: userName})
	if err != nil {
		_ = conn.write(Frame{Type: "error", Error: status.Convert(err).Message()})
		return
	}

	log := g.log.With("user_name", userName, "remote", r.RemoteAddr)
	log.Info("browser connected")

	go func() {
		defer cancel()
		g.pumpStream(ctx, stream, conn)
		// unblocks the read loop
		_ = socket.Close()
	}()

	for {
		var inbound InboundMessage
		if err := socket.ReadJSON(&inbound); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, io.EOF) {
				log.Debug("WebSocket read ended", "error", err)
			}
			break
		}
		if _, err := g.chat.SendMessage(ctx, &pb.ChatMessage{UserName: userName, Content: inbound.Content}); err != nil {
			if werr := conn.write(Frame{Type: "error", Error: status.Convert(err).Message()}); werr != nil {
				break
			}
		}
	}
	log.Info("browser disconnected")
}

// pumpStream forwards every received message to the browser until the stream ends.
func (g *Gateway) pumpStream(ctx context.Context, stream pb.ChatService_ConnectClient, conn *wsConn) {
	for {
		msg, err := stream.Recv()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) && status.Code(err) != codes.Canceled {
				_ = conn.write(Frame{Type: "error", Error: status.Convert(err).Message()})
			}
			return
		}
		view := ToMessageView(msg)
		if err := conn.write(Frame{Type: "message", Message: &view}); err != nil {
			return
		}
	}
}

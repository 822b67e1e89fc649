// Package gateway bridges browsers to the relay: a WebSocket per chat client
// and a small JSON API, every call forwarded over gRPC. It keeps no chat state.
package gateway

import (
	pb "chat-relay/proto/chat"
	"embed"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
)

//go:embed playground.html
var playground embed.FS

type Gateway struct {
	log            *slog.Logger
	chat           pb.ChatServiceClient
	monitoring     pb.MonitoringServiceClient
	upgrader       websocket.Upgrader
	allowedOrigins []string
	requestTimeout time.Duration
}

func NewGateway(log *slog.Logger, conn grpc.ClientConnInterface, allowedOrigins []string, requestTimeout time.Duration) *Gateway {
	g := &Gateway{
		log:            log,
		chat:           pb.NewChatServiceClient(conn),
		monitoring:     pb.NewMonitoringServiceClient(conn),
		allowedOrigins: allowedOrigins,
		requestTimeout: requestTimeout,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", g.playgroundPage)
	r.Get("/ws", g.webSocket)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(g.requestTimeout))
		r.Post("/messages", g.postMessage)
		r.Get("/status", g.getStatus)
	})
	return r
}

func (g *Gateway) playgroundPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, playground, "playground.html")
}

// checkOrigin accepts same-host pages, configured origins and non-browser clients.
func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	return slices.Contains(g.allowedOrigins, origin)
}

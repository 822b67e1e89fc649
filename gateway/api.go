package gateway

import (
	pb "chat-relay/proto/chat"
	"encoding/json"
	"net/http"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/emptypb"
)

type PostMessageRequest struct {
	UserName string `json:"user_name"`
	Content  string `json:"content"`
}

// MessageView is the JSON shape of a delivered message.
type MessageView struct {
	ID       string    `json:"id"`
	UserName string    `json:"user_name"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

type errorView struct {
	Error string `json:"error"`
}

func ToMessageView(msg *pb.ChatMessage) MessageView {
	return MessageView{
		ID:       msg.GetId(),
		UserName: msg.GetUserName(),
		Content:  msg.GetContent(),
		SentAt:   time.Unix(0, msg.GetSentAt()).UTC(),
	}
}

func (g *Gateway) postMessage(w http.ResponseWriter, r *http.Request) {
	var body PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorView{Error: "invalid JSON body"})
		return
	}

	_, err := g.chat.SendMessage(r.Context(), &pb.ChatMessage{UserName: body.UserName, Content: body.Content})
	if err != nil {
		g.log.Warn("send message failed", "user_name", body.UserName, "error", err)
		writeJSON(w, httpStatus(err), errorView{Error: status.Convert(err).Message()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) getStatus(w http.ResponseWriter, r *http.Request) {
	nodeStatus, err := g.monitoring.GetStatus(r.Context(), &emptypb.Empty{})
	if err != nil {
		writeJSON(w, httpStatus(err), errorView{Error: status.Convert(err).Message()})
		return
	}

	body, err := protojson.MarshalOptions{UseProtoNames: true, EmitUnpopulated: true}.
		Marshal(protoadapt.MessageV2Of(nodeStatus))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorView{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// httpStatus maps relay errors to the closest HTTP status.
func httpStatus(err error) int {
	switch status.Code(err) {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.DeadlineExceeded, codes.Canceled:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

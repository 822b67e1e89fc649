package server

import (
	"chat-relay/domain"
	"chat-relay/errors"
	pb "chat-relay/proto/chat"
	"chat-relay/services"
	"context"
	"log/slog"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
)

type ChatServer struct {
	pb.UnimplementedChatServiceServer
	chatService services.IChatService
	log         *slog.Logger
}

func NewChatServer(log *slog.Logger, chatService services.IChatService) *ChatServer {
	return &ChatServer{chatService: chatService, log: log}
}

// SendMessage broadcasts the message to every connected client, the sender included,
// and acknowledges once every delivery attempt is over.
func (s *ChatServer) SendMessage(ctx context.Context, req *pb.ChatMessage) (*emptypb.Empty, error) {
	command := domain.PostMessageCommand{
		UserName:  req.GetUserName(),
		Content:   req.GetContent(),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.chatService.SendMessage(ctx, command); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &emptypb.Empty{}, nil
}

// Connect registers the caller under its user name and streams every broadcast message to it.
// It blocks until the client goes away, the stream breaks or the server shuts down.
func (s *ChatServer) Connect(req *pb.ConnectRequest, stream pb.ChatService_ConnectServer) error {
	session, err := s.chatService.Connect(domain.UserName(req.GetUserName()))
	if err != nil {
		return errors.MapToGRPCError(err)
	}

	return session.Run(stream.Context(), func(msg domain.Message) error {
		if err := stream.Send(ToChatMessage(msg)); err != nil {
			s.log.Error("failed to push message to stream",
				"user_name", session.UserName(),
				"message_id", msg.ID,
				"error", err)
			return err
		}
		return nil
	})
}

func ToChatMessage(msg domain.Message) *pb.ChatMessage {
	return &pb.ChatMessage{
		UserName: msg.UserName.String(),
		Content:  msg.Content,
		Id:       msg.ID.String(),
		SentAt:   msg.SentAt.UnixNano(),
	}
}

package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/sink"
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type IChatService interface {
	Connect(userName domain.UserName) (*Session, error)
	SendMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error)
	Participants() []domain.UserName
}

type IModerator interface {
	Review(content string) moderation.Review
}

type ChatServiceConfig struct {
	ConnectionBufferSize int
	DeliveryTimeout      time.Duration
	MaxContentLength     int
}

type ChatService struct {
	log         *slog.Logger
	registry    contract.IRegistry
	broadcaster contract.IBroadcaster
	telemetry   chan<- event.Event
	validate    *validator.Validate
	moderator   IModerator
	config      ChatServiceConfig
}

func NewChatService(log *slog.Logger, registry contract.IRegistry,
	broadcaster contract.IBroadcaster, telemetry chan<- event.Event,
	config ChatServiceConfig) *ChatService {
	return &ChatService{
		log:         log,
		registry:    registry,
		broadcaster: broadcaster,
		telemetry:   telemetry,
		validate:    validator.New(),
		config:      config,
	}
}

// WithModerator enables censoring of every message before it is broadcast.
func (s *ChatService) WithModerator(moderator IModerator) *ChatService {
	s.moderator = moderator
	return s
}

// Connect validates the name then registers a fresh delivery path for it.
// Nothing is mutated when the name is rejected. Once the relay stopped,
// the registry refuses the path and Connect fails with ErrRelayStopped.
func (s *ChatService) Connect(userName domain.UserName) (*Session, error) {
	if err := userName.Validate(); err != nil {
		return nil, err
	}

	handle := sink.NewGrpcSink(userName, s.config.ConnectionBufferSize, s.config.DeliveryTimeout)
	session := newSession(s.log, userName, handle, s.registry, s.telemetry)

	replaced := s.registry.Register(userName, handle)
	select {
	case <-handle.Done():
		return nil, errors.ErrRelayStopped
	default:
	}
	event.Emit(s.log, s.telemetry, event.New(event.SessionOpenedType, event.SessionOpened{UserName: userName}))
	if replaced {
		event.Emit(s.log, s.telemetry, event.New(event.UserReplacedType, event.UserReplaced{UserName: userName}))
	}
	s.log.Info("client connected", "user_name", userName, "replaced", replaced, "connected", s.registry.Len())
	return session, nil
}

// SendMessage broadcasts the message to every connected client, sender included.
// It only fails on invalid input, delivery problems never surface here.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Message{}, err
	}
	author := domain.UserName(cmd.UserName)
	if err := author.Validate(); err != nil {
		return domain.Message{}, err
	}
	if s.config.MaxContentLength > 0 && utf8.RuneCountInString(cmd.Content) > s.config.MaxContentLength {
		return domain.Message{}, fmt.Errorf("%w: content longer than %d characters", errors.ErrInvalidMessage, s.config.MaxContentLength)
	}

	at := cmd.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	msg := domain.NewMessage(author, s.moderate(author, cmd.Content), at)

	report := s.broadcaster.Broadcast(ctx, msg)
	if len(report.Failed) > 0 {
		s.log.Debug("message partially delivered",
			"message_id", msg.ID,
			"delivered", len(report.Delivered),
			"failed", report.Failed)
	}
	return msg, nil
}

func (s *ChatService) Participants() []domain.UserName {
	return s.registry.Names()
}

func (s *ChatService) moderate(author domain.UserName, content string) string {
	if s.moderator == nil || content == "" {
		return content
	}
	review := s.moderator.Review(content)
	if len(review.Words) > 0 {
		s.log.Info("message censored", "author", author, "words", len(review.Words), "lang", review.Language)
		event.Emit(s.log, s.telemetry, event.New(event.CensorshipHitType, event.Censored{
			Author:   author,
			Words:    review.Words,
			Language: review.Language,
		}))
	}
	return review.Content
}

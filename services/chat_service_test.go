package services

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/moderation"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testConfig = ChatServiceConfig{
	ConnectionBufferSize: 1,
	DeliveryTimeout:      50 * time.Millisecond,
	MaxContentLength:     16,
}

func newService(telemetry chan event.Event) (*ChatService, *runtime.Registry) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry()
	broadcaster := runtime.NewBroadcaster(log, registry, telemetry)
	return NewChatService(log, registry, broadcaster, telemetry, testConfig), registry
}

func TestChatService_Connect_Registers(t *testing.T) {
	req := require.New(t)
	telemetry := make(chan event.Event, 10)
	service, registry := newService(telemetry)

	// When alice connects
	session, err := service.Connect("alice")

	// Then she is registered and the session is not streaming yet
	req.NoError(err)
	req.Equal(domain.UserName("alice"), session.UserName())
	req.Equal(Registering, session.State())
	req.Equal([]domain.UserName{"alice"}, registry.Names())
	req.Equal([]domain.UserName{"alice"}, service.Participants())
	req.Equal(event.SessionOpenedType, (<-telemetry).Type)
}

func TestChatService_Connect_Invalid_Name(t *testing.T) {
	req := require.New(t)
	service, registry := newService(nil)

	for _, name := range []domain.UserName{"", " alice", "bob ", domain.UserName(strings.Repeat("x", 65))} {
		// When connecting with an invalid name
		session, err := service.Connect(name)

		// Then it is rejected before any registration
		req.ErrorIs(err, errors.ErrInvalidUserName, "name=%q", name)
		req.Nil(session)
	}
	req.Zero(registry.Len())
}

func TestChatService_Connect_After_Shutdown(t *testing.T) {
	req := require.New(t)
	telemetry := make(chan event.Event, 10)
	service, registry := newService(telemetry)

	// Given the relay closed every delivery path
	registry.CloseAll()

	// When a client connects afterwards
	session, err := service.Connect("carol")

	// Then it is refused and nothing is left registered
	req.ErrorIs(err, errors.ErrRelayStopped)
	req.Nil(session)
	req.Zero(registry.Len())
}

func TestChatService_Connect_Same_Name_Twice(t *testing.T) {
	req := require.New(t)
	telemetry := make(chan event.Event, 10)
	service, registry := newService(telemetry)

	// Given alice connected twice
	first, err := service.Connect("alice")
	req.NoError(err)
	second, err := service.Connect("alice")
	req.NoError(err)

	// Then only one registration exists and the replacement is reported
	req.Equal(1, registry.Len())
	types := []event.Type{(<-telemetry).Type, (<-telemetry).Type, (<-telemetry).Type}
	req.Equal([]event.Type{event.SessionOpenedType, event.SessionOpenedType, event.UserReplacedType}, types)

	// When a message is sent, only the newest connection gets it
	_, err = service.SendMessage(context.Background(), domain.PostMessageCommand{UserName: "bob", Content: "hi"})
	req.NoError(err)
	req.Equal("hi", (<-second.handle.Events()).Content)
	req.Empty(first.handle.Events())
}

func TestChatService_SendMessage_Reaches_Everyone(t *testing.T) {
	req := require.New(t)
	service, _ := newService(nil)
	alice, err := service.Connect("alice")
	req.NoError(err)
	bob, err := service.Connect("bob")
	req.NoError(err)

	// When alice sends a message
	msg, err := service.SendMessage(context.Background(), domain.PostMessageCommand{UserName: "alice", Content: "hi"})

	// Then it is stamped and both bob and alice receive it
	req.NoError(err)
	req.NotZero(msg.ID)
	req.False(msg.SentAt.IsZero())
	req.Equal(msg, <-bob.handle.Events())
	req.Equal(msg, <-alice.handle.Events())
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	req := require.New(t)
	service, _ := newService(nil)

	tests := []struct {
		description string
		cmd         domain.PostMessageCommand
		wantErr     bool
	}{
		{"Should succeed with content", domain.PostMessageCommand{UserName: "alice", Content: "hello"}, false},
		{"Should succeed with empty content", domain.PostMessageCommand{UserName: "alice", Content: ""}, false},
		{"Should succeed with content at max length", domain.PostMessageCommand{UserName: "alice", Content: strings.Repeat("é", 16)}, false},
		{"Should fail if user name is empty", domain.PostMessageCommand{UserName: "", Content: "hello"}, true},
		{"Should fail if user name exceeds 64 characters", domain.PostMessageCommand{UserName: strings.Repeat("a", 65), Content: "hello"}, true},
		{"Should fail if user name is only spaces", domain.PostMessageCommand{UserName: "   ", Content: "hello"}, true},
		{"Should fail if user name is padded", domain.PostMessageCommand{UserName: " alice ", Content: "hello"}, true},
		{"Should fail if user name is a tab", domain.PostMessageCommand{UserName: "\t", Content: "hello"}, true},
		{"Should fail if content is too long", domain.PostMessageCommand{UserName: "alice", Content: strings.Repeat("a", 17)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := service.SendMessage(context.Background(), tt.cmd)
			if tt.wantErr {
				req.Error(err)
				var validationErrors validator.ValidationErrors
				req.True(errors.Is(err, errors.ErrInvalidMessage) ||
					errors.Is(err, errors.ErrInvalidUserName) ||
					errors.As(err, &validationErrors))
				return
			}
			req.NoError(err)
		})
	}
}

func TestChatService_SendMessage_Without_Recipients(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	registry := mocks.NewMockIRegistry(ctrl)
	broadcaster := mocks.NewMockIBroadcaster(ctrl)
	service := NewChatService(log, registry, broadcaster, nil, testConfig)

	// Given nobody is connected
	broadcaster.EXPECT().Broadcast(gomock.Any(), gomock.Any()).Return(domain.BroadcastReport{}).Times(1)

	// Then sending still succeeds
	_, err := service.SendMessage(context.Background(), domain.PostMessageCommand{UserName: "alice", Content: "anyone?"})
	req.NoError(err)
}

func TestChatService_SendMessage_Delivery_Failures_Are_Hidden(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	registry := mocks.NewMockIRegistry(ctrl)
	broadcaster := mocks.NewMockIBroadcaster(ctrl)
	service := NewChatService(log, registry, broadcaster, nil, testConfig)

	broadcaster.EXPECT().Broadcast(gomock.Any(), gomock.Any()).Return(domain.BroadcastReport{
		Recipients: 2,
		Delivered:  []domain.UserName{"alice"},
		Failed:     []domain.UserName{"carol"},
	}).Times(1)

	_, err := service.SendMessage(context.Background(), domain.PostMessageCommand{UserName: "alice", Content: "hi"})
	req.NoError(err)
}

func TestChatService_SendMessage_Moderated(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	telemetry := make(chan event.Event, 10)
	service, _ := newService(telemetry)
	moderator, err := moderation.NewModerator([]string{"troll"}, '*', log)
	req.NoError(err)
	service.WithModerator(moderator)

	// When a forbidden word is sent
	msg, err := service.SendMessage(context.Background(), domain.PostMessageCommand{UserName: "alice", Content: "you troll"})

	// Then it is censored before broadcast
	req.NoError(err)
	req.Equal("you *****", msg.Content)
	evt := <-telemetry
	req.Equal(event.CensorshipHitType, evt.Type)
	req.Equal([]string{"troll"}, evt.Payload.(event.Censored).Words)
}

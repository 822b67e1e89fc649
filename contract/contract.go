//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the sending capability of one client's delivery path.
// Consume must not block longer than its own delivery timeout or ctx.
type EventSink interface {
	Consume(ctx context.Context, msg domain.Message) error
}

// Entry is one (name, sink) pair of a registry snapshot.
type Entry struct {
	UserName domain.UserName
	Sink     EventSink
}

type IRegistry interface {
	Register(name domain.UserName, sink EventSink) bool
	Unregister(name domain.UserName)
	Remove(name domain.UserName, sink EventSink) bool
	Snapshot() []Entry
	Names() []domain.UserName
	Len() int
}

type IBroadcaster interface {
	Broadcast(ctx context.Context, msg domain.Message) domain.BroadcastReport
}

package middleware

import (
	"context"

	"github.com/leofalp/chatmemory/chat"
	"github.com/leofalp/chatmemory/providers/history"
)

// errStore returns a fixed error from every operation.
type errStore struct{ err error }

var _ history.Store = (*errStore)(nil)

func (s *errStore) Messages(context.Context) ([]chat.Message, error)          { return nil, s.err }
func (s *errStore) LastMessages(context.Context, int) ([]chat.Message, error) { return nil, s.err }
func (s *errStore) AddMessage(context.Context, chat.Message) error            { return s.err }
func (s *errStore) AddMessages(context.Context, []chat.Message) error         { return s.err }
func (s *errStore) Clear(context.Context) error                               { return s.err }

// blockingStore blocks on every operation until its context is canceled, then
// returns the context error. It lets timeout tests observe deadline
// enforcement without a real slow backend.
type blockingStore struct{}

var _ history.Store = (*blockingStore)(nil)

func (s *blockingStore) wait(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingStore) Messages(ctx context.Context) ([]chat.Message, error) {
	return nil, s.wait(ctx)
}

func (s *blockingStore) LastMessages(ctx context.Context, _ int) ([]chat.Message, error) {
	return nil, s.wait(ctx)
}

func (s *blockingStore) AddMessage(ctx context.Context, _ chat.Message) error {
	return s.wait(ctx)
}

func (s *blockingStore) AddMessages(ctx context.Context, _ []chat.Message) error {
	return s.wait(ctx)
}

func (s *blockingStore) Clear(ctx context.Context) error {
	return s.wait(ctx)
}

package database

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Transactor runs a group of writes as one unit.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NewTransactor returns a session-backed Transactor when enabled, otherwise
// one that runs fn directly. Without transactions each write inside fn
// commits on its own, so a failure part way through leaves earlier writes in
// place.
func NewTransactor(client *mongo.Client, enabled bool) Transactor {
	if !enabled {
		return Direct{}
	}
	return &sessionTx{client: client}
}

type sessionTx struct {
	client *mongo.Client
}

func (t *sessionTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// Direct runs fn without a transaction.
type Direct struct{}

func (Direct) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

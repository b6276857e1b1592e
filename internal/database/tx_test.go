package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactor_Disabled(t *testing.T) {
	tx := NewTransactor(nil, false)
	require.IsType(t, Direct{}, tx)

	calls := 0
	require.NoError(t, tx.InTx(context.Background(), func(context.Context) error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	err := tx.InTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestNewTransactor_Enabled(t *testing.T) {
	tx := NewTransactor(nil, true)
	assert.IsType(t, &sessionTx{}, tx)
}

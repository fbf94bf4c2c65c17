package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestStatusWithoutDatabase(t *testing.T) {
	assert.Equal(t, Report{OK: true, Database: "memory"}, NewService(nil).Status(context.Background()))
}

func TestStatusPingsDatabase(t *testing.T) {
	ok := NewService(pingFunc(func(ctx context.Context) error { return nil }))
	assert.True(t, ok.Status(context.Background()).OK)

	down := NewService(pingFunc(func(ctx context.Context) error { return errors.New("refused") }))
	assert.Equal(t, Report{OK: false, Database: "unreachable"}, down.Status(context.Background()))
}

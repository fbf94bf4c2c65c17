package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.reply, f.err
}

func okProvider(name, reply string) *fakeProvider {
	return &fakeProvider{name: name, reply: reply}
}

func failingProvider(name string) *fakeProvider {
	return &fakeProvider{name: name, err: errors.New("upstream 503")}
}

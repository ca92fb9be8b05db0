// Package inferencetest provides scripted providers for flow tests
package inferencetest

import (
	"context"
	"sync"

	"birdspot/internal/adapters/inference"
)

// Fake returns canned replies and records every request
type Fake struct {
	mu       sync.Mutex
	reply    func(inference.Request) (map[string]any, error)
	requests []inference.Request

	// Block, when set, is waited on before answering
	Block chan struct{}

	// Text is returned by Transcribe along with TextErr
	Text    string
	TextErr error
}

// Reply answers every request with raw
func Reply(raw map[string]any) *Fake {
	return &Fake{reply: func(inference.Request) (map[string]any, error) { return raw, nil }}
}

// Fail answers every request with err
func Fail(err error) *Fake {
	return &Fake{reply: func(inference.Request) (map[string]any, error) { return nil, err }}
}

// Func answers with fn
func Func(fn func(inference.Request) (map[string]any, error)) *Fake {
	return &Fake{reply: fn}
}

// Infer implements inference.Provider
func (f *Fake) Infer(ctx context.Context, req inference.Request) (map[string]any, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.reply(req)
}

// Model implements inference.Provider
func (f *Fake) Model() string { return "fake-model" }

// Transcribe implements inference.Transcriber
func (f *Fake) Transcribe(context.Context, []byte) (string, error) { return f.Text, f.TextErr }

// Calls returns how many requests were answered or are in flight
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns a copy of the recorded requests
func (f *Fake) Requests() []inference.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]inference.Request(nil), f.requests...)
}

package testutil

import (
	"context"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"speech-insight/internal/app/transcription"
)

// MockEngine is a testify mock of transcription.Engine
type MockEngine struct {
	mock.Mock
}

var _ transcription.Engine = (*MockEngine)(nil)

// Name implements transcription.Engine
func (m *MockEngine) Name() string {
	return "mock"
}

// Transcribe implements transcription.Engine
func (m *MockEngine) Transcribe(ctx context.Context, req *transcription.Request) (*transcription.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*transcription.Response)
	return resp, args.Error(1)
}

// StubEngine returns the same response or error for every call
type StubEngine struct {
	Response *transcription.Response
	Err      error
	// Block, when set, is waited on before answering
	Block chan struct{}

	calls int32
}

var _ transcription.Engine = (*StubEngine)(nil)

// Name implements transcription.Engine
func (s *StubEngine) Name() string {
	return "stub"
}

// Transcribe implements transcription.Engine
func (s *StubEngine) Transcribe(ctx context.Context, _ *transcription.Request) (*transcription.Response, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Response, nil
}

// Calls returns how many times Transcribe ran
func (s *StubEngine) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

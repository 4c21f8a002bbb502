package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/brightpath/voice-tutor/internal/llm"
	"github.com/brightpath/voice-tutor/internal/retrieval"
	"github.com/brightpath/voice-tutor/internal/stt"
)

type fakeTranscriber struct {
	mu        sync.Mutex
	results   chan stt.Result
	started   bool
	finalized int
	sent      [][]byte
}

func newFakeTranscriber() *fakeTranscriber {
	return &fakeTranscriber{results: make(chan stt.Result, 16)}
}

func (f *fakeTranscriber) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return nil
}

func (f *fakeTranscriber) SendAudio(pcm []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, len(pcm))
	copy(buf, pcm)
	f.sent = append(f.sent, buf)
	return nil
}

func (f *fakeTranscriber) Results() <-chan stt.Result {
	return f.results
}

func (f *fakeTranscriber) Finalize() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalized++
	return nil
}

func (f *fakeTranscriber) Close() error {
	return nil
}

func (f *fakeTranscriber) wasStarted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *fakeTranscriber) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeGenerator struct {
	mu        sync.Mutex
	reply     string
	err       error
	block     bool
	cancelled chan struct{}
	requests  []llm.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.block
	reply := f.reply
	err := f.err
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		if f.cancelled != nil {
			close(f.cancelled)
		}
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (f *fakeGenerator) set(reply string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = reply
	f.err = err
}

func (f *fakeGenerator) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeGenerator) requestAt(i int) llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

type fakeSynthesizer struct {
	mu      sync.Mutex
	audio   []byte
	failFor map[string]bool
	failAll bool
	delay   time.Duration
	calls   []string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failAll || f.failFor[text] {
		return nil, errors.New("synthesis unavailable")
	}
	if f.audio != nil {
		return f.audio, nil
	}
	return []byte("pcm-bytes"), nil
}

func (f *fakeSynthesizer) Close() error {
	return nil
}

func (f *fakeSynthesizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeRetriever struct {
	mu       sync.Mutex
	snippets []retrieval.Snippet
	err      error
	queries  []string
}

func (f *fakeRetriever) Search(ctx context.Context, course, query string, limit int) ([]retrieval.Snippet, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.snippets, nil
}

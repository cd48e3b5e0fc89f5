package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"vitaltrack/fitness-app/internal/domain"
)

type emitted struct {
	UserID  string
	Event   string
	Payload any
}

// recordingPublisher keeps every emitted event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []emitted
}

func (p *recordingPublisher) Emit(userID, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, emitted{UserID: userID, Event: event, Payload: payload})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}

func (p *recordingPublisher) last() emitted {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// fixedNow returns a clock frozen at t.
func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func payloadOf(e emitted) domain.ChangePayload {
	return e.Payload.(domain.ChangePayload)
}

// fakeStorage is an in-memory FileStorage.
type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
	failDel bool
}

func (f *fakeStorage) GeneratePresignedUploadURL(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + key, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + key, nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDel {
		return errors.New("boom")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

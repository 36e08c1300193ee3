package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"voice-relay/internal/domain/dto"
	"voice-relay/internal/domain/entities"
	"voice-relay/internal/infra/transcriber"
)

type fakeVoiceProvider struct {
	body   string
	err    error
	urls   []string
	closed bool
}

func (f *fakeVoiceProvider) DownloadRecording(ctx context.Context, recordingURL string) (io.ReadCloser, error) {
	f.urls = append(f.urls, recordingURL)
	if f.err != nil {
		return nil, f.err
	}
	return &trackingBody{Reader: strings.NewReader(f.body), onClose: func() { f.closed = true }}, nil
}

func (f *fakeVoiceProvider) GenerateJWT() (string, error) { return "token", nil }

type trackingBody struct {
	io.Reader
	onClose func()
}

func (b *trackingBody) Close() error {
	b.onClose()
	return nil
}

type fakeStorage struct {
	objects map[string]string
	puts    int
	err     error
	ctxErr  error
}

func (f *fakeStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	f.puts++
	if _, ok := ctx.Deadline(); !ok {
		f.ctxErr = errors.New("no deadline on storage context")
	}
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[key] = string(data)
	return nil
}

type fakeTranscriber struct {
	requests []transcriber.JobRequest
	err      error
}

func (f *fakeTranscriber) StartJob(ctx context.Context, req transcriber.JobRequest) (dto.TranscriptionJobResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return dto.TranscriptionJobResponse{}, f.err
	}
	return dto.TranscriptionJobResponse{
		JobName:      req.JobName,
		Status:       "IN_PROGRESS",
		MediaURI:     req.MediaURI,
		LanguageCode: req.LanguageCode,
		MediaFormat:  req.MediaFormat,
	}, nil
}

// memoryRepository serializes every write and counts whole-document replaces.
type memoryRepository struct {
	mu       sync.Mutex
	sessions map[string]entities.CallSession
	upserts  int
	findErr  error
	applyErr error
	// block makes ApplyUpdate wait for the caller's context to end.
	block    bool
	deadline time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{sessions: map[string]entities.CallSession{}}
}

func (m *memoryRepository) Upsert(ctx context.Context, collectionName string, conversationID string, entity entities.CallSession) (entities.CallSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	m.sessions[conversationID] = entity
	return entity, nil
}

func (m *memoryRepository) ApplyUpdate(ctx context.Context, collectionName string, conversationID string, update entities.SessionUpdate, now time.Time) error {
	if m.block {
		m.deadline, _ = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return m.applyErr
	}
	session := m.sessions[conversationID]
	session.ConversationID = conversationID
	session.Apply(update, now)
	m.sessions[conversationID] = session
	return nil
}

func (m *memoryRepository) FindByConversationID(ctx context.Context, collectionName string, conversationID string) (entities.CallSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return entities.CallSession{}, m.findErr
	}
	session, ok := m.sessions[conversationID]
	if !ok {
		return entities.CallSession{}, mongo.ErrNoDocuments
	}
	return session, nil
}

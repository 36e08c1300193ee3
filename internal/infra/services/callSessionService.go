package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"voice-relay/internal/domain/entities"
	"voice-relay/internal/domain/interfaces/repository"
	repoconstants "voice-relay/internal/domain/interfaces/repository/constants"
	"voice-relay/internal/infra/logger"
)

var ErrSessionNotFound = errors.New("call session not found")

// CallSessionService journals webhook observations per conversation.
type CallSessionService struct {
	CallSessionRepository repository.CallSessionRepository
	Logger                *logger.Logger
	Timeout               time.Duration
	now                   func() time.Time
}

func NewCallSessionService(callSessionRepository repository.CallSessionRepository, logger *logger.Logger, timeout time.Duration) *CallSessionService {
	return &CallSessionService{
		CallSessionRepository: callSessionRepository,
		Logger:                logger,
		Timeout:               timeout,
		now:                   time.Now,
	}
}

// Record applies update to the stored session in one atomic write. Timeout
// bounds the write so a slow journal delays a webhook by at most that long.
// Failures are logged only; the journal must never fail a webhook.
func (css *CallSessionService) Record(ctx context.Context, conversationID string, update entities.SessionUpdate) {
	if conversationID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, css.Timeout)
	defer cancel()

	fields := logrus.Fields{"conversation_uuid": conversationID, "stage": update.Stage}

	if err := css.CallSessionRepository.ApplyUpdate(ctx, repoconstants.CALL_SESSION_COLLECTION, conversationID, update, css.now().UTC()); err != nil {
		css.Logger.Warn("Failed to save call session", fields, logrus.Fields{"error": err.Error()})
		return
	}
	css.Logger.Debug("Call session updated", fields)
}

func (css *CallSessionService) Find(ctx context.Context, conversationID string) (entities.CallSession, error) {
	ctx, cancel := context.WithTimeout(ctx, css.Timeout)
	defer cancel()

	session, err := css.CallSessionRepository.FindByConversationID(ctx, repoconstants.CALL_SESSION_COLLECTION, conversationID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.CallSession{}, ErrSessionNotFound
	}
	if err != nil {
		return entities.CallSession{}, err
	}
	return session, nil
}

// NopCallSessionService is used when no journal database is configured.
type NopCallSessionService struct{}

func (NopCallSessionService) Record(context.Context, string, entities.SessionUpdate) {}

func (NopCallSessionService) Find(context.Context, string) (entities.CallSession, error) {
	return entities.CallSession{}, ErrSessionNotFound
}

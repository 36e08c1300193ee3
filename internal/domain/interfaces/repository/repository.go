package repository

import (
	"context"
	"time"

	"voice-relay/internal/domain/entities"
)

type Repository[T any] interface {
	Upsert(ctx context.Context, collectionName string, conversationID string, entity T) (T, error)
	FindByConversationID(ctx context.Context, collectionName string, conversationID string) (T, error)
}

// CallSessionRepository applies journal updates in a single atomic write per
// call, so overlapping webhooks for one conversation never overwrite each other.
type CallSessionRepository interface {
	Repository[entities.CallSession]
	ApplyUpdate(ctx context.Context, collectionName string, conversationID string, update entities.SessionUpdate, now time.Time) error
}

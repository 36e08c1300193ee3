package Iservices

import (
	"context"

	"voice-relay/internal/domain/entities"
)

// ICallSessionService journals what the webhooks observe about a call.
// Record never fails the caller; Find returns ErrSessionNotFound when nothing
// is journaled for the conversation.
type ICallSessionService interface {
	Record(ctx context.Context, conversationID string, update entities.SessionUpdate)
	Find(ctx context.Context, conversationID string) (entities.CallSession, error)
}

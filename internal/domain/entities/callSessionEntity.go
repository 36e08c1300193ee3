package entities

import "time"

// Stage is a step of the call lifecycle as observed through the webhooks.
type Stage string

const (
	StageAnswered     Stage = "ANSWERED"
	StageRecording    Stage = "RECORDING"
	StageRecorded     Stage = "RECORDED"
	StageFetched      Stage = "FETCHED"
	StageTranscribing Stage = "TRANSCRIBING"
)

var stageOrder = map[Stage]int{
	StageAnswered:     1,
	StageRecording:    2,
	StageRecorded:     3,
	StageFetched:      4,
	StageTranscribing: 5,
}

// Rank is the position of s in the lifecycle, 0 for an unknown stage.
func (s Stage) Rank() int {
	return stageOrder[s]
}

// After reports whether s comes later in the lifecycle than other.
func (s Stage) After(other Stage) bool {
	return s.Rank() > other.Rank()
}

// CallSession is the optional journal entry for one conversation. The voice
// platform and the object store remain the systems of record.
type CallSession struct {
	ConversationID string       `json:"conversation_uuid" bson:"conversation_id"`
	Stage          Stage        `json:"stage" bson:"stage"`
	StageRank      int          `json:"-" bson:"stage_rank"`
	RecordingURL   string       `json:"recording_url,omitempty" bson:"recording_url,omitempty"`
	ObjectKey      string       `json:"object_key,omitempty" bson:"object_key,omitempty"`
	JobName        string       `json:"job_name,omitempty" bson:"job_name,omitempty"`
	History        []StageEvent `json:"history" bson:"history"`
	CreatedAt      time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" bson:"updated_at"`
}

type StageEvent struct {
	Stage     Stage     `json:"stage" bson:"stage"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// SessionUpdate carries what one webhook learned about a session.
type SessionUpdate struct {
	Stage        Stage
	RecordingURL string
	ObjectKey    string
	JobName      string
	Detail       string
}

// Apply records the update in the history and advances the stage only when the
// update is later in the lifecycle, so callbacks arriving out of order never
// move a session backwards.
func (cs *CallSession) Apply(update SessionUpdate, now time.Time) {
	if cs.CreatedAt.IsZero() {
		cs.CreatedAt = now
	}
	cs.UpdatedAt = now

	cs.History = append(cs.History, StageEvent{Stage: update.Stage, Detail: update.Detail, Timestamp: now})

	if update.Stage.After(cs.Stage) {
		cs.Stage = update.Stage
		cs.StageRank = update.Stage.Rank()
	}
	if update.RecordingURL != "" {
		cs.RecordingURL = update.RecordingURL
	}
	if update.ObjectKey != "" {
		cs.ObjectKey = update.ObjectKey
	}
	if update.JobName != "" {
		cs.JobName = update.JobName
	}
}

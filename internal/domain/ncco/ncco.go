// Package ncco builds the Nexmo Call Control Object returned from the answer
// webhook.
package ncco

import (
	"net/http"
	"strings"
)

const (
	ActionTalk   = "talk"
	ActionRecord = "record"
	ActionNotify = "notify"
)

const (
	FetchPath      = "/webhooks/fetch"
	TranscribePath = "/webhooks/transcribe"
)

// Record termination conditions.
const (
	EndOnSilenceSeconds = 3
	EndOnKey            = "#"
)

// Step is one instruction of a call-control script. Each concrete action keeps
// only the fields the platform accepts for it.
type Step interface {
	Action() string
}

type Talk struct {
	Type string `json:"action"`
	Text string `json:"text"`
}

func (t Talk) Action() string { return t.Type }

type Record struct {
	Type         string   `json:"action"`
	EventURL     []string `json:"eventUrl"`
	EventMethod  string   `json:"eventMethod"`
	EndOnSilence int      `json:"endOnSilence"`
	EndOnKey     string   `json:"endOnKey"`
	BeepOnStart  bool     `json:"beepOnStart"`
}

func (r Record) Action() string { return r.Type }

type Notify struct {
	Type        string            `json:"action"`
	Payload     map[string]string `json:"payload"`
	EventURL    []string          `json:"eventUrl"`
	EventMethod string            `json:"eventMethod"`
}

func (n Notify) Action() string { return n.Type }

// Script is the ordered list serialized as the answer response body.
type Script []Step

// Prompts are the spoken texts around the recording.
type Prompts struct {
	Greeting string
	Goodbye  string
}

// NewVoicemailScript returns talk → record → talk → notify. The record step
// reports the finished recording to the fetch webhook and the notify step
// triggers the transcribe webhook once the caller hangs up the flow.
func NewVoicemailScript(baseURL string, prompts Prompts) Script {
	baseURL = strings.TrimRight(baseURL, "/")

	return Script{
		Talk{Type: ActionTalk, Text: prompts.Greeting},
		Record{
			Type:         ActionRecord,
			EventURL:     []string{baseURL + FetchPath},
			EventMethod:  http.MethodPost,
			EndOnSilence: EndOnSilenceSeconds,
			EndOnKey:     EndOnKey,
			BeepOnStart:  true,
		},
		Talk{Type: ActionTalk, Text: prompts.Goodbye},
		Notify{
			Type:        ActionNotify,
			Payload:     map[string]string{"next": "transcribe"},
			EventURL:    []string{baseURL + TranscribePath},
			EventMethod: http.MethodPost,
		},
	}
}

// BaseURL picks the configured public base URL when set and otherwise rebuilds
// scheme://host[:port] from r. The rebuilt value is only as good as the Host
// the request arrived with; behind tunnels and proxies it is usually the
// internal address.
func BaseURL(configured string, r *http.Request) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

package outbox

import (
	"encoding/json"
	"strings"
	"time"
)

const cloudEventsContentType = "application/cloudevents+json"

// Envelope is the CloudEvents 1.0 structured form published to the broker.
type Envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// EventName strips the version suffix from Type.
func (e Envelope) EventName() string {
	return strings.TrimSuffix(e.Type, ".v1")
}

// TopicFor maps booking.created to <prefix>booking.events.v1.
func TopicFor(prefix, name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return prefix + base + ".events.v1"
}

// Package activitymap turns auth activity events into flat records
// suitable for audit logs and downstream consumers.
package activitymap

import (
	"strconv"
	"strings"
	"time"

	auth "github.com/goliatone/go-logins"
)

const (
	defaultChannel    = "auth"
	defaultObjectType = "user"
	defaultActorID    = "anonymous"
)

// Record is a transport agnostic activity shape
type Record struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Option func(*options)

type options struct {
	channel       string
	objectType    string
	actorFallback string
}

func WithChannel(channel string) Option {
	return func(o *options) {
		o.channel = strings.TrimSpace(channel)
	}
}

func WithObjectType(objectType string) Option {
	return func(o *options) {
		o.objectType = strings.TrimSpace(objectType)
	}
}

// WithActorFallback sets the actor id used for events with no user,
// such as failed logins.
func WithActorFallback(actorID string) Option {
	return func(o *options) {
		o.actorFallback = strings.TrimSpace(actorID)
	}
}

// Normalize converts an auth.ActivityEvent into a Record
func Normalize(event auth.ActivityEvent, opts ...Option) Record {
	o := options{
		channel:       defaultChannel,
		objectType:    defaultObjectType,
		actorFallback: defaultActorID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	actorID := o.actorFallback
	objectID := ""
	if event.UserID > 0 {
		actorID = strconv.FormatInt(event.UserID, 10)
		objectID = actorID
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return Record{
		ActorID:    actorID,
		Verb:       string(event.EventType),
		ObjectType: o.objectType,
		ObjectID:   objectID,
		Channel:    o.channel,
		Metadata:   cloneMap(event.Metadata),
		OccurredAt: occurredAt,
	}
}

func cloneMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

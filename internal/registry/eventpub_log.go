package registry

import "github.com/rs/zerolog"

// LogPublisher writes every event to a zerolog logger at debug level.
type LogPublisher struct {
	Logger zerolog.Logger
}

func (p LogPublisher) Publish(e Event) {
	ev := p.Logger.Debug()
	if e.Name == EventObserverFailure {
		ev = p.Logger.Warn()
	}
	ev.Str("event", e.Name).Str("type", e.Type).Fields(e.Fields).Msg("registry event")
}

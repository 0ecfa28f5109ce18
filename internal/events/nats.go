package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher emits one event per completed journey search so downstream
// consumers (analytics, demand heatmaps) can subscribe without touching the
// search path. Publishing is fire-and-forget; a failed publish never fails
// the search.
type Publisher struct {
	nc          *nats.Conn
	logSubjects bool
	metrics     PublisherMetrics
}

type PublisherMetrics interface {
	PublishedInc()
	PublishErrInc()
	PublishObserve(d time.Duration)
	SetConnected(connected bool)
}

func NewPublisher(url string, logSubjects bool, m PublisherMetrics) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("transit-search"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(false)
			}
			log.Warn().Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(true)
			}
			log.Info().Msg("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(false)
			}
			log.Info().Msg("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.SetConnected(true)
	}
	return &Publisher{nc: nc, logSubjects: logSubjects, metrics: m}, nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

type SearchEvent struct {
	OriginStopID  string    `json:"originStopId"`
	DestStopID    string    `json:"destStopId"`
	Direction     string    `json:"direction"`
	RequestedTime time.Time `json:"requestedTime"`
	Found         bool      `json:"found"`
	TransferCount int       `json:"transferCount,omitempty"`
	DurationMin   int       `json:"durationMinutes,omitempty"`
	SearchedAt    time.Time `json:"searchedAt"`
}

func (p *Publisher) PublishSearch(evt SearchEvent) error {
	subject := fmt.Sprintf("journey.search.%s.%s", subjectToken(evt.OriginStopID), subjectToken(evt.DestStopID))
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Debug().Str("subject", subject).Msg("nats publish")
	}
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.PublishErrInc()
		} else {
			p.metrics.PublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}

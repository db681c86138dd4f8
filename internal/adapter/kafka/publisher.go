package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/precip-climatology/internal/config"
	"github.com/couchcryptid/precip-climatology/internal/domain"
)

// Publisher produces one summary message per analysis run.
// It implements pipeline.ReportPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured report topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes the report summary and writes it synchronously.
func (p *Publisher) Publish(ctx context.Context, r domain.Report) error {
	msg, err := serializeToMessage(r)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write report message: %w", err)
	}
	p.logger.Debug("report message written", "topic", p.writer.Topic, "key", string(msg.Key))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// ReportMessage is the JSON value of a published report.
type ReportMessage struct {
	Location     string            `json:"location"`
	ThisYear     int               `json:"this_year"`
	RefStartYear int               `json:"ref_start_year"`
	RefEndYear   int               `json:"ref_end_year"`
	Highlight    *domain.Highlight `json:"highlight,omitempty"`
	Anomalies    []domain.Anomaly  `json:"anomalies"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// messageKey groups reports per location and month, e.g. "Chimoio:2025-03".
func messageKey(r domain.Report) string {
	if r.Highlight == nil {
		return r.Location
	}
	return r.Location + ":" + r.Highlight.Date.Format("2006-01")
}

// serializeToMessage marshals the report summary into a Kafka message. Only
// valid anomalies are included.
func serializeToMessage(r domain.Report) (kafkago.Message, error) {
	anomalies := make([]domain.Anomaly, 0, len(r.Anomalies))
	for _, a := range r.Anomalies {
		if a.Valid {
			anomalies = append(anomalies, a)
		}
	}

	data, err := json.Marshal(ReportMessage{
		Location:     r.Location,
		ThisYear:     r.Current.Year,
		RefStartYear: r.Climatology.StartYear,
		RefEndYear:   r.Climatology.EndYear,
		Highlight:    r.Highlight,
		Anomalies:    anomalies,
		GeneratedAt:  r.GeneratedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(r)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location", Value: []byte(r.Location)},
			{Key: "generated_at", Value: []byte(r.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}

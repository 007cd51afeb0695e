package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/tide-data-collector/internal/domain"
)

// Publisher produces normalized observation rows to a Kafka topic so
// downstream consumers can ingest them without reading the output files.
// It is optional; the file sink remains the primary artifact.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishRows serializes one window's normalized rows and publishes them
// in a single WriteMessages call. Keys carry the remote station id so a
// station's observations land in one partition, preserving order.
func (p *Publisher) PublishRows(ctx context.Context, station domain.StationSpec, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	collectedAt := domain.Now()
	msgs := make([]kafkago.Message, len(rows))
	for i, row := range rows {
		msg, err := rowToMessage(station, header, row, collectedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// rowToMessage marshals a row into a JSON object keyed by column name.
// Columns beyond the header width are dropped; missing trailing columns
// are simply absent from the object.
func rowToMessage(station domain.StationSpec, header []string, row []string, collectedAt time.Time) (kafkago.Message, error) {
	record := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		record[strings.TrimSpace(name)] = row[i]
	}

	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation row: %w", err)
	}

	return kafkago.Message{
		Key:   []byte(station.RemoteID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station_name", Value: []byte(station.Name)},
			{Key: "collected_at", Value: []byte(collectedAt.Format(time.RFC3339))},
		},
	}, nil
}

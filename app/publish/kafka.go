package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/lysyi3m/rss-estate/app/article"
)

const EventArticleSynced = "article.synced"

// ArticleEvent is the message body announcing a newly stored article.
type ArticleEvent struct {
	Event       string           `json:"event"`
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	SourceName  string           `json:"source_name"`
	SourceURL   string           `json:"source_url"`
	SourceHash  string           `json:"source_hash"`
	Category    article.Category `json:"category"`
	ImageURL    *string          `json:"image_url"`
	Enriched    bool             `json:"enriched"`
	PublishedAt time.Time        `json:"published_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per inserted article, keyed by fingerprint.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
	slog.Info("Kafka publisher initialized", "brokers", brokers, "topic", topic)
	return &KafkaPublisher{writer: writer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a *article.Article) error {
	value, err := json.Marshal(ArticleEvent{
		Event:       EventArticleSynced,
		ID:          a.ID,
		Title:       a.Title,
		SourceName:  a.SourceName,
		SourceURL:   a.SourceURL,
		SourceHash:  a.SourceHash,
		Category:    a.Category,
		ImageURL:    a.ImageURL,
		Enriched:    a.Content != nil,
		PublishedAt: a.PublishedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(a.SourceHash),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	slog.Debug("Article event published", "topic", p.topic, "id", a.ID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

package repository

import (
	"context"

	"StockCast/internal/domain/models"
)

// MessagePublisher is the slice of pkg/kafka.Producer the forecast publisher needs.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaForecastPublisher emits forecast.generated events keyed by symbol.
type KafkaForecastPublisher struct {
	producer MessagePublisher
	topic    string
}

func NewKafkaForecastPublisher(producer MessagePublisher, topic string) *KafkaForecastPublisher {
	return &KafkaForecastPublisher{producer: producer, topic: topic}
}

func (p *KafkaForecastPublisher) PublishForecast(ctx context.Context, rec *models.ForecastRecord) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Symbol), rec)
}

func (p *KafkaForecastPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

package kafka

import (
	"context"
	"encoding/json"
	"time"

	"social-app/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

var (
	eventsProduced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_events_produced_total",
			Help: "Total number of events produced to Kafka",
		},
		[]string{"topic"},
	)
	produceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_produce_duration_seconds",
			Help:    "Duration of Kafka produce operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)

func init() {
	prometheus.MustRegister(eventsProduced, produceDuration)
}

// EventProducer publishes realtime events keyed by recipient, so all
// events for one user land on the same partition and stay ordered.
type EventProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewEventProducer(brokers []string, topic string) *EventProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    1000,
		BatchBytes:   4 * 1024 * 1024, // 4MB
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  compress.Snappy,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				eventsProduced.WithLabelValues(topic).Add(float64(len(messages)))
			}
		},
	}

	return &EventProducer{
		writer: w,
		topic:  topic,
	}
}

func (p *EventProducer) Publish(ctx context.Context, event models.RealtimeEvent) error {
	start := time.Now()
	defer func() {
		produceDuration.WithLabelValues(p.topic).Observe(time.Since(start).Seconds())
	}()

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RecipientID.Hex()),
		Value: value,
	})
}

func (p *EventProducer) Close() error {
	return p.writer.Close()
}

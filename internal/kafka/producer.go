package kafka

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/psds-microservice/order-service/internal/model"
	"github.com/segmentio/kafka-go"
)

// OrderEventProducer — интерфейс для отправки событий жизненного цикла заказа
// в Kafka (для подмены моком в тестах).
type OrderEventProducer interface {
	ProduceOrderEvent(ctx context.Context, event string, o *model.Order)
	ProduceAsync(event string, o *model.Order)
}

// События жизненного цикла заказа.
const (
	EventOrderCreated    = "order.created"
	EventOrderUpdated    = "order.updated"
	EventOrderCancelled  = "order.cancelled"
	EventOrderProcessing = "order.processing"
	EventOrderCompleted  = "order.completed"
	EventOrderDeleted    = "order.deleted"
)

// Producer пишет события заказов в топик Kafka (best-effort, не блокирует API).
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer создаёт продюсер. Если brokers пустой или topic пустой — методы no-op.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// ProduceOrderEvent отправляет событие заказа в топик.
func (p *Producer) ProduceOrderEvent(ctx context.Context, event string, o *model.Order) {
	if p.writer == nil || o == nil {
		return
	}
	msg := map[string]interface{}{
		"event":    event,
		"order_id": o.ID,
		"user_id":  o.UserID,
		"status":   string(o.Status),
		"name":     o.Name,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("kafka: marshal order event: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("kafka: write order event: %v", err)
	}
}

// ProduceAsync вызывает ProduceOrderEvent в отдельной горутине (не блокирует ответ API).
func (p *Producer) ProduceAsync(event string, o *model.Order) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.ProduceOrderEvent(ctx, event, o)
	}()
}

// Close закрывает writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers разбивает строку брокеров "host1:9092,host2:9092" на слайс.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

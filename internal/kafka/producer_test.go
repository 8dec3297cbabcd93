package kafka

import (
	"context"
	"testing"

	"github.com/psds-microservice/order-service/internal/model"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	req := require.New(t)
	req.Nil(ParseBrokers(""))
	req.Equal([]string{"localhost:9092"}, ParseBrokers("localhost:9092"))
	req.Equal([]string{"a:9092", "b:9092"}, ParseBrokers(" a:9092 , b:9092 ,"))
}

func TestProducer_NoopWithoutBrokers(t *testing.T) {
	req := require.New(t)
	p := NewProducer(nil, "")

	// Методы должны быть безопасны без настроенного writer.
	p.ProduceOrderEvent(context.Background(), EventOrderCreated, &model.Order{ID: 1})
	p.ProduceAsync(EventOrderCreated, &model.Order{ID: 1})
	req.NoError(p.Close())
}

package service

import (
	"context"

	"github.com/psds-microservice/order-service/internal/model"
	"gorm.io/gorm"
)

// ChatServicer — интерфейс для HTTP-хендлера чата и гейтвея.
type ChatServicer interface {
	Create(ctx context.Context, orderID, senderID uint64, message string, isFromCustomer bool) (*model.Chat, error)
	ListByOrder(ctx context.Context, orderID uint64) ([]model.Chat, error)
}

// ChatService хранит сообщения чата заказа. Сообщения неизменяемы:
// ни update, ни delete здесь не определены.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

func (s *ChatService) Create(ctx context.Context, orderID, senderID uint64, message string, isFromCustomer bool) (*model.Chat, error) {
	chat := &model.Chat{
		OrderID:        orderID,
		UserID:         senderID,
		Message:        message,
		IsFromCustomer: isFromCustomer,
	}
	if err := s.db.WithContext(ctx).Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) ListByOrder(ctx context.Context, orderID uint64) ([]model.Chat, error) {
	var items []model.Chat
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

package service

import (
	"context"
	"errors"

	"github.com/psds-microservice/order-service/internal/auth"
	"github.com/psds-microservice/order-service/internal/errs"
	"github.com/psds-microservice/order-service/internal/model"
	"gorm.io/gorm"
)

// OrderServicer — интерфейс для HTTP-хендлеров и гейтвея (Dependency Inversion).
type OrderServicer interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByOwner(ctx context.Context, userID uint64) ([]model.Order, error)
	Update(ctx context.Context, id uint64, ident auth.Identity, changes map[string]interface{}) (*model.Order, error)
	Delete(ctx context.Context, id uint64, ident auth.Identity) error
	Cancel(ctx context.Context, id uint64, ident auth.Identity) (*model.Order, error)
	Process(ctx context.Context, id uint64, ident auth.Identity, closingSummary string) (*model.Order, error)
	Complete(ctx context.Context, id uint64, ident auth.Identity) (*model.Order, error)
	AuthorizeChat(ctx context.Context, orderID uint64, ident auth.Identity) (*model.Order, error)
}

// OrderService владеет жизненным циклом заказа. Все проверки статуса делаются
// по свежепрочитанной записи внутри вызова: статус мог измениться параллельным
// запросом, держать его в памяти между вызовами нельзя.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

func (s *OrderService) Create(ctx context.Context, o *model.Order) error {
	o.Status = model.OrderStatusReviewing
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *OrderService) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	var o model.Order
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	var items []model.Order
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *OrderService) ListByOwner(ctx context.Context, userID uint64) ([]model.Order, error) {
	var items []model.Order
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// loadOwnedReviewing перечитывает заказ и проверяет, что он принадлежит
// пользователю и всё ещё в статусе REVIEWING. После PROCESSING заказ
// принадлежит процессу ревью и владельцем больше не изменяется.
func (s *OrderService) loadOwnedReviewing(ctx context.Context, id uint64, ident auth.Identity) (*model.Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.IsOwner(o, ident.UserID) {
		return nil, errs.ErrForbidden
	}
	if o.Status != model.OrderStatusReviewing {
		return nil, errs.ErrOrderNotReviewing
	}
	return o, nil
}

func (s *OrderService) Update(ctx context.Context, id uint64, ident auth.Identity, changes map[string]interface{}) (*model.Order, error) {
	o, err := s.loadOwnedReviewing(ctx, id, ident)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(o).Updates(changes).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint64, ident auth.Identity) error {
	o, err := s.loadOwnedReviewing(ctx, id, ident)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(o).Error
}

// Cancel переводит REVIEWING -> CANCELLED. Повторный cancel по уже
// отменённому заказу отклоняется (ErrOrderNotReviewing), а не игнорируется.
func (s *OrderService) Cancel(ctx context.Context, id uint64, ident auth.Identity) (*model.Order, error) {
	o, err := s.loadOwnedReviewing(ctx, id, ident)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, model.OrderStatusCancelled, nil)
}

// Process переводит REVIEWING -> PROCESSING и записывает closing_summary.
// Только для ADMIN. С этого момента чат по заказу закрыт навсегда.
func (s *OrderService) Process(ctx context.Context, id uint64, ident auth.Identity, closingSummary string) (*model.Order, error) {
	if ident.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, model.OrderStatusProcessing, map[string]interface{}{
		"closing_summary": closingSummary,
	})
}

// Complete переводит PROCESSING -> COMPLETED. Только для ADMIN.
func (s *OrderService) Complete(ctx context.Context, id uint64, ident auth.Identity) (*model.Order, error) {
	if ident.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, model.OrderStatusCompleted, nil)
}

func (s *OrderService) transition(ctx context.Context, o *model.Order, to model.OrderStatus, extra map[string]interface{}) (*model.Order, error) {
	if !model.CanTransition(o.Status, to) {
		return nil, errs.ErrForbidden
	}
	changes := map[string]interface{}{"status": to}
	for k, v := range extra {
		changes[k] = v
	}
	if err := s.db.WithContext(ctx).Model(o).Updates(changes).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// AuthorizeChat — единая точка авторизации чата для HTTP-пути и гейтвея.
// Заказ перечитывается при каждом вызове.
func (s *OrderService) AuthorizeChat(ctx context.Context, orderID uint64, ident auth.Identity) (*model.Order, error) {
	o, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if model.CanParticipateInChat(o, ident.UserID, ident.Role) {
		return o, nil
	}
	// Отказ раскладывается на формы только ради HTTP-статуса; само решение
	// принимает предикат выше.
	if ident.Role != model.RoleAdmin && !model.IsOwner(o, ident.UserID) {
		return nil, errs.ErrForbidden
	}
	return nil, errs.ErrOrderNotReviewing
}

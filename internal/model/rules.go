package model

// transitions описывает граф статусов заказа: REVIEWING -> PROCESSING -> COMPLETED,
// с альтернативной веткой REVIEWING -> CANCELLED. COMPLETED и CANCELLED терминальны.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusReviewing:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted},
}

// CanTransition сообщает, разрешён ли переход статуса from -> to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanParticipateInChat — единственная точка принятия решения о доступе к чату
// заказа. Используется и HTTP-обработчиком чата, и realtime-гейтвеем; заказ
// должен быть свежепрочитан перед каждым вызовом.
func CanParticipateInChat(o *Order, userID uint64, role Role) bool {
	if o == nil {
		return false
	}
	if o.Status != OrderStatusReviewing {
		return false
	}
	return role == RoleAdmin || userID == o.UserID
}

// IsOwner сообщает, принадлежит ли заказ пользователю.
func IsOwner(o *Order, userID uint64) bool {
	return o != nil && o.UserID == userID
}

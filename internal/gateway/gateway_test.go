package gateway

import (
	"context"
	"sync"
	"testing"

	"github.com/psds-microservice/order-service/internal/auth"
	"github.com/psds-microservice/order-service/internal/errs"
	"github.com/psds-microservice/order-service/internal/model"
	"github.com/stretchr/testify/require"
)

// fakeOrders keeps orders in memory and authorizes through the same pure
// predicate the real service uses.
type fakeOrders struct {
	mu     sync.Mutex
	orders map[uint64]*model.Order
}

func newFakeOrders(orders ...*model.Order) *fakeOrders {
	m := make(map[uint64]*model.Order)
	for _, o := range orders {
		m[o.ID] = o
	}
	return &fakeOrders{orders: m}
}

func (f *fakeOrders) setStatus(orderID uint64, status model.OrderStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[orderID].Status = status
}

func (f *fakeOrders) AuthorizeChat(_ context.Context, orderID uint64, ident auth.Identity) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, errs.ErrOrderNotFound
	}
	if model.CanParticipateInChat(o, ident.UserID, ident.Role) {
		return o, nil
	}
	if ident.Role != model.RoleAdmin && !model.IsOwner(o, ident.UserID) {
		return nil, errs.ErrForbidden
	}
	return nil, errs.ErrOrderNotReviewing
}

type fakeChats struct {
	mu       sync.Mutex
	messages []model.Chat
}

func (f *fakeChats) Create(_ context.Context, orderID, senderID uint64, message string, isFromCustomer bool) (*model.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat := model.Chat{
		ID:             uint64(len(f.messages) + 1),
		OrderID:        orderID,
		UserID:         senderID,
		Message:        message,
		IsFromCustomer: isFromCustomer,
	}
	f.messages = append(f.messages, chat)
	return &chat, nil
}

type recordSink struct {
	mu     sync.Mutex
	events []string
	chats  []*model.Chat
}

func (s *recordSink) Send(_ context.Context, event string, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if chat, ok := payload.(*model.Chat); ok {
		s.chats = append(s.chats, chat)
	}
	return nil
}

func newTestGateway(orders *fakeOrders, chats *fakeChats) *Gateway {
	return New(orders, chats, auth.NewTokens("test-secret", 0), nil)
}

var (
	customerA = auth.Identity{UserID: 1, Role: model.RoleCustomer}
	customerB = auth.Identity{UserID: 2, Role: model.RoleCustomer}
	admin     = auth.Identity{UserID: 9, Role: model.RoleAdmin}
)

func reviewingOrder(id uint64) *model.Order {
	return &model.Order{ID: id, UserID: customerA.UserID, Status: model.OrderStatusReviewing}
}

func TestHandleJoin_OwnerAndAdminJoin(t *testing.T) {
	req := require.New(t)
	orders := newFakeOrders(reviewingOrder(10))
	gw := newTestGateway(orders, &fakeChats{})

	gw.handleJoin(context.Background(), joinRoomPayload{OrderID: 10}, customerA, "conn-a", &recordSink{})
	gw.handleJoin(context.Background(), joinRoomPayload{OrderID: 10}, admin, "conn-adm", &recordSink{})

	req.Len(gw.rooms.Members(10), 2)
}

func TestHandleJoin_StrangerSilentlyDropped(t *testing.T) {
	req := require.New(t)
	orders := newFakeOrders(reviewingOrder(10))
	gw := newTestGateway(orders, &fakeChats{})

	gw.handleJoin(context.Background(), joinRoomPayload{OrderID: 10}, customerB, "conn-b", &recordSink{})

	// Fail closed: not added, no error frame, room never created.
	req.Nil(gw.rooms.Members(10))
}

func TestHandleJoin_UnknownOrderSilentlyDropped(t *testing.T) {
	gw := newTestGateway(newFakeOrders(), &fakeChats{})

	gw.handleJoin(context.Background(), joinRoomPayload{OrderID: 404}, customerA, "conn-a", &recordSink{})

	require.Zero(t, gw.rooms.Rooms())
}

func TestHandleSend_RelaysToOthersNotSender(t *testing.T) {
	req := require.New(t)
	orders := newFakeOrders(reviewingOrder(10))
	chats := &fakeChats{}
	gw := newTestGateway(orders, chats)

	sender := &recordSink{}
	receiver := &recordSink{}
	gw.handleJoin(context.Background(), joinRoomPayload{OrderID: 10}, customerA, "conn-a", sender)
	gw.handleJoin(context.Background(), joinRoomPayload{OrderID: 10}, admin, "conn-adm", receiver)

	gw.handleSend(context.Background(), sendMessagePayload{OrderID: 10, Message: "hello"}, customerA, "conn-a")

	// Persisted once.
	req.Len(chats.messages, 1)
	req.Equal("hello", chats.messages[0].Message)
	req.True(chats.messages[0].IsFromCustomer)

	// Relayed to the admin, not echoed to the sender.
	req.Equal([]string{EventReceiveMessage}, receiver.events)
	req.Len(receiver.chats, 1)
	req.Equal("hello", receiver.chats[0].Message)
	req.Empty(sender.events)
}

func TestHandleSend_DeniedAfterOrderLeavesReview(t *testing.T) {
	req := require.New(t)
	orders := newFakeOrders(reviewingOrder(10))
	chats := &fakeChats{}
	gw := newTestGateway(orders, chats)

	receiver := &recordSink{}
	gw.handleJoin(context.Background(), joinRoomPayload{OrderID: 10}, customerA, "conn-a", &recordSink{})
	gw.handleJoin(context.Background(), joinRoomPayload{OrderID: 10}, admin, "conn-adm", receiver)

	// Admin processes the order after the join succeeded.
	orders.setStatus(10, model.OrderStatusProcessing)

	gw.handleSend(context.Background(), sendMessagePayload{OrderID: 10, Message: "too late"}, customerA, "conn-a")

	// The send is re-authorized against fresh state: nothing persisted, nothing relayed.
	req.Empty(chats.messages)
	req.Empty(receiver.events)
}

func TestHandleSend_StrangerNeverPersists(t *testing.T) {
	req := require.New(t)
	orders := newFakeOrders(reviewingOrder(10))
	chats := &fakeChats{}
	gw := newTestGateway(orders, chats)

	gw.handleSend(context.Background(), sendMessagePayload{OrderID: 10, Message: "hi"}, customerB, "conn-b")

	req.Empty(chats.messages)
}

func TestDispatch_MalformedAndUnknownEventsIgnored(t *testing.T) {
	req := require.New(t)
	orders := newFakeOrders(reviewingOrder(10))
	gw := newTestGateway(orders, &fakeChats{})

	gw.dispatch(context.Background(), envelope{Event: EventJoinRoom, Data: []byte(`{"order_id":0}`)}, customerA, "conn-a", &recordSink{})
	gw.dispatch(context.Background(), envelope{Event: EventSendMessage, Data: []byte(`{"order_id":10}`)}, customerA, "conn-a", &recordSink{})
	gw.dispatch(context.Background(), envelope{Event: "presence", Data: []byte(`{}`)}, customerA, "conn-a", &recordSink{})

	req.Zero(gw.rooms.Rooms())
}

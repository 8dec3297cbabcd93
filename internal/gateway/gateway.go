package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/psds-microservice/order-service/internal/auth"
	"github.com/psds-microservice/order-service/internal/model"
)

// ChatAuthorizer решает, может ли identity участвовать в чате заказа.
// Реализуется service.OrderService; заказ перечитывается при каждом вызове.
type ChatAuthorizer interface {
	AuthorizeChat(ctx context.Context, orderID uint64, ident auth.Identity) (*model.Order, error)
}

// ChatAppender сохраняет сообщение чата. Реализуется service.ChatService.
type ChatAppender interface {
	Create(ctx context.Context, orderID, senderID uint64, message string, isFromCustomer bool) (*model.Chat, error)
}

// Websocket events. Names match what polling clients see on the HTTP side.
const (
	EventJoinRoom       = "join-room"
	EventSendMessage    = "send-message"
	EventReceiveMessage = "receive-message"
)

const writeTimeout = 5 * time.Second

// envelope is the wire frame for client events: {"event": ..., "data": {...}}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomPayload struct {
	OrderID uint64 `json:"order_id"`
}

type sendMessagePayload struct {
	OrderID uint64 `json:"order_id"`
	Message string `json:"message"`
}

// Gateway authenticates websocket connections, manages room membership and
// relays chat messages. Authorization is re-checked against a fresh order read
// on every join and every send: the order may transition out of REVIEWING at
// any moment via the HTTP side. Unauthorized joins and sends are dropped
// silently (no error frame) so probing cannot learn whether an order exists;
// every drop is logged with identity, order id and reason.
type Gateway struct {
	orders  ChatAuthorizer
	chats   ChatAppender
	tokens  *auth.Tokens
	rooms   *Registry
	origins []string
}

func New(orders ChatAuthorizer, chats ChatAppender, tokens *auth.Tokens, origins []string) *Gateway {
	return &Gateway{
		orders:  orders,
		chats:   chats,
		tokens:  tokens,
		rooms:   NewRegistry(),
		origins: origins,
	}
}

// ServeHTTP upgrades the connection. A missing or invalid bearer credential
// terminates the handshake before any gateway state is created.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		log.Printf("gateway: connection rejected: authorization header missing or malformed")
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	ident, err := g.tokens.Verify(token)
	if err != nil {
		log.Printf("gateway: connection rejected: token verification failed: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	opts := &websocket.AcceptOptions{}
	if len(g.origins) > 0 {
		opts.OriginPatterns = g.origins
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		log.Printf("gateway: accept: %v", err)
		return
	}
	g.run(r.Context(), conn, ident)
}

// run is the per-connection event loop. The identity is captured once at
// connect time and never reassigned. Events are read and handled one at a
// time, which gives the per-connection ordering guarantee.
func (g *Gateway) run(ctx context.Context, conn *websocket.Conn, ident auth.Identity) {
	connID := uuid.NewString()
	sink := &connSink{conn: conn}
	log.Printf("gateway: %s user %d connected (conn %s)", ident.Role, ident.UserID, connID)

	defer func() {
		g.rooms.Drop(connID)
		_ = conn.Close(websocket.StatusNormalClosure, "closed")
		log.Printf("gateway: %s user %d disconnected (conn %s)", ident.Role, ident.UserID, connID)
	}()

	for {
		var env envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			return
		}
		g.dispatch(ctx, env, ident, connID, sink)
	}
}

func (g *Gateway) dispatch(ctx context.Context, env envelope, ident auth.Identity, connID string, sink Sink) {
	switch env.Event {
	case EventJoinRoom:
		var p joinRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.OrderID == 0 {
			log.Printf("gateway: user %d: malformed %s payload", ident.UserID, EventJoinRoom)
			return
		}
		g.handleJoin(ctx, p, ident, connID, sink)
	case EventSendMessage:
		var p sendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.OrderID == 0 || p.Message == "" {
			log.Printf("gateway: user %d: malformed %s payload", ident.UserID, EventSendMessage)
			return
		}
		g.handleSend(ctx, p, ident, connID)
	default:
		log.Printf("gateway: user %d: unknown event %q ignored", ident.UserID, env.Event)
	}
}

func (g *Gateway) handleJoin(ctx context.Context, p joinRoomPayload, ident auth.Identity, connID string, sink Sink) {
	if _, err := g.orders.AuthorizeChat(ctx, p.OrderID, ident); err != nil {
		log.Printf("gateway: join denied: user %d (%s) order %d: %v", ident.UserID, ident.Role, p.OrderID, err)
		return
	}
	g.rooms.Join(p.OrderID, connID, sink)
	log.Printf("gateway: %s user %d joined room %d (conn %s)", ident.Role, ident.UserID, p.OrderID, connID)
}

// handleSend re-authorizes against a fresh order read even when the sender
// joined earlier: the order may have left REVIEWING since. Only then the
// message is persisted and relayed to every other room member. The sender
// gets no echo.
func (g *Gateway) handleSend(ctx context.Context, p sendMessagePayload, ident auth.Identity, connID string) {
	if _, err := g.orders.AuthorizeChat(ctx, p.OrderID, ident); err != nil {
		log.Printf("gateway: send denied: user %d (%s) order %d: %v", ident.UserID, ident.Role, p.OrderID, err)
		return
	}
	chat, err := g.chats.Create(ctx, p.OrderID, ident.UserID, p.Message, ident.Role == model.RoleCustomer)
	if err != nil {
		log.Printf("gateway: persist message: user %d order %d: %v", ident.UserID, p.OrderID, err)
		return
	}
	for memberID, member := range g.rooms.Members(p.OrderID) {
		if memberID == connID {
			continue
		}
		if err := member.Send(ctx, EventReceiveMessage, chat); err != nil {
			log.Printf("gateway: relay to conn %s failed: %v", memberID, err)
			g.rooms.Leave(p.OrderID, memberID)
		}
	}
}

// connSink adapts a websocket connection to the Sink interface.
type connSink struct {
	conn *websocket.Conn
}

func (s *connSink) Send(ctx context.Context, event string, payload interface{}) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, s.conn, map[string]interface{}{
		"event": event,
		"data":  payload,
	})
}

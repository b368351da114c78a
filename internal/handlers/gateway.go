package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/fanout"
	"github.com/14kear/online_voting/polls-service/internal/middleware"
	"github.com/14kear/online_voting/polls-service/internal/services/polls"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait           = 10 * time.Second
	maxMessageSize      = 4096
	defaultPingInterval = 30 * time.Second
	defaultSendBuffer   = 16
	disconnectTimeout   = 5 * time.Second
)

// Message is what a client sends over the socket.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type idData struct {
	ID string `json:"id"`
}

type nominateData struct {
	Text string `json:"text"`
}

type rankingsData struct {
	Rankings []string `json:"rankings"`
}

// Gateway upgrades authenticated requests to WebSocket connections, seats
// the participant and turns inbound messages into poll actions.
type Gateway struct {
	log          *slog.Logger
	polls        *polls.Polls
	hub          *fanout.Hub
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	sendBuffer   int
}

func NewGateway(
	log *slog.Logger,
	pollsService *polls.Polls,
	hub *fanout.Hub,
	origins []string,
	pingInterval time.Duration,
	sendBuffer int,
) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return &Gateway{
		log:   log,
		polls: pollsService,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		pingInterval: pingInterval,
		sendBuffer:   sendBuffer,
	}
}

func (g *Gateway) Connect(c *gin.Context) {
	const op = "handlers.Gateway.Connect"

	pollID := c.Param("id")
	log := g.log.With(slog.String("op", op), slog.String("poll_id", pollID))

	sess, ok := middleware.Session(c)
	if !ok || sess.PollID != pollID {
		writeError(c, fmt.Errorf("%s: %w", op, polls.ErrUnauthorized))
		return
	}
	log = log.With(slog.String("user_id", sess.UserID))

	ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("upgrade failed", sl.Err(err))
		return
	}

	conn := newWSConn(ws, sess.UserID, g.sendBuffer)
	go conn.writeLoop(g.pingInterval)

	// Join before seating so a concurrent disconnect of the same participant
	// sees this connection. Events are held until the seat is granted.
	g.hub.JoinRoom(pollID, conn)

	ctx := c.Request.Context()
	if _, err := g.polls.AddParticipant(ctx, sess, pollID); err != nil {
		g.hub.LeaveRoom(pollID, conn)
		conn.deny(exceptionEvent(err))
		conn.Close()
		log.Info("connection refused", sl.Err(err))
		return
	}
	conn.admit()

	log.Info("client connected")

	g.readLoop(ctx, conn, sess, pollID)

	g.hub.LeaveRoom(pollID, conn)
	conn.Close()

	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
	defer cancel()

	left, err := g.polls.Disconnect(dctx, sess, pollID)
	if err != nil {
		log.Error("failed to handle disconnect", sl.Err(err))
		return
	}
	log.Info("client disconnected", slog.Bool("seat_released", left))
}

func (g *Gateway) readLoop(ctx context.Context, conn *wsConn, sess polls.Session, pollID string) {
	ws := conn.ws
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Debug("connection lost", slog.String("poll_id", pollID), sl.Err(err))
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.Send(exceptionEvent(fmt.Errorf("%w: malformed message", polls.ErrValidation)))
			continue
		}

		if err := g.dispatch(ctx, sess, pollID, msg); err != nil {
			conn.Send(exceptionEvent(err))
		}
	}
}

func (g *Gateway) dispatch(ctx context.Context, sess polls.Session, pollID string, msg Message) error {
	var err error

	switch entity.Action(msg.Event) {
	case entity.ActionNominate:
		var d nominateData
		if err = decode(msg, &d); err == nil {
			_, err = g.polls.Nominate(ctx, sess, pollID, d.Text)
		}
	case entity.ActionRemoveNomination:
		var d idData
		if err = decode(msg, &d); err == nil {
			_, err = g.polls.RemoveNomination(ctx, sess, pollID, d.ID)
		}
	case entity.ActionStart:
		_, err = g.polls.StartPoll(ctx, sess, pollID)
	case entity.ActionSubmitRankings:
		var d rankingsData
		if err = decode(msg, &d); err == nil {
			_, err = g.polls.SubmitRankings(ctx, sess, pollID, d.Rankings)
		}
	case entity.ActionClose:
		_, err = g.polls.ClosePoll(ctx, sess, pollID)
	case entity.ActionCancel:
		err = g.polls.CancelPoll(ctx, sess, pollID)
	case entity.ActionRemoveParticipant:
		var d idData
		if err = decode(msg, &d); err == nil {
			_, err = g.polls.RemoveParticipant(ctx, sess, pollID, d.ID)
		}
	default:
		err = fmt.Errorf("%w: unknown event %q", polls.ErrValidation, msg.Event)
	}

	return err
}

func decode(msg Message, v any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%w: %s requires data", polls.ErrValidation, msg.Event)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%w: invalid data for %s", polls.ErrValidation, msg.Event)
	}
	return nil
}

func exceptionEvent(err error) fanout.Event {
	_, exc := classify(err)
	return fanout.Event{Type: fanout.EventException, Payload: exc}
}

// wsConn adapts a websocket to fanout.Conn. All writes go through writeLoop.
type wsConn struct {
	ws            *websocket.Conn
	participantID string
	send          chan fanout.Event
	done          chan struct{}
	closeOnce     sync.Once

	mu       sync.Mutex
	admitted bool
	held     []fanout.Event
}

func newWSConn(ws *websocket.Conn, participantID string, buffer int) *wsConn {
	return &wsConn{
		ws:            ws,
		participantID: participantID,
		send:          make(chan fanout.Event, buffer),
		done:          make(chan struct{}),
	}
}

func (c *wsConn) ParticipantID() string { return c.participantID }

func (c *wsConn) Send(event fanout.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.admitted {
		if len(c.held) >= cap(c.send) {
			return false
		}
		c.held = append(c.held, event)
		return true
	}
	return c.enqueue(event)
}

// admit releases the events held while the participant was being seated.
func (c *wsConn) admit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.admitted = true
	for _, event := range c.held {
		c.enqueue(event)
	}
	c.held = nil
}

// deny drops held events and queues only the refusal.
func (c *wsConn) deny(event fanout.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.held = nil
	c.admitted = true
	c.enqueue(event)
}

func (c *wsConn) enqueue(event fanout.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Close flushes what is queued and closes the socket.
func (c *wsConn) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *wsConn) writeLoop(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case event := <-c.send:
			if err := c.write(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.flush()
			return
		}
	}
}

func (c *wsConn) flush() {
	for {
		select {
		case event := <-c.send:
			if err := c.write(event); err != nil {
				return
			}
		default:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *wsConn) write(event fanout.Event) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(event)
}

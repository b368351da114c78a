package handlers

import (
	"fmt"
	"testing"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/fanout"
	"github.com/14kear/online_voting/polls-service/internal/services/polls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c *wsConn) []fanout.Event {
	var out []fanout.Event
	for {
		select {
		case e := <-c.send:
			out = append(out, e)
		default:
			return out
		}
	}
}

func update(id string) fanout.Event {
	return fanout.Event{Type: fanout.EventPollUpdated, Payload: entity.NewPoll(id, "topic", 1, "a")}
}

func TestWSConn_HoldsEventsUntilAdmitted(t *testing.T) {
	c := newWSConn(nil, "u1", 4)

	assert.True(t, c.Send(update("AAAAAA")))
	assert.True(t, c.Send(update("BBBBBB")))
	assert.Empty(t, drain(c))

	c.admit()

	events := drain(c)
	require.Len(t, events, 2)
	assert.Equal(t, "AAAAAA", events[0].Payload.(entity.Poll).ID)
	assert.Equal(t, "BBBBBB", events[1].Payload.(entity.Poll).ID)

	assert.True(t, c.Send(update("CCCCCC")))
	assert.Len(t, drain(c), 1)
}

func TestWSConn_DeniedConnectionGetsOnlyException(t *testing.T) {
	c := newWSConn(nil, "u1", 4)

	c.Send(update("AAAAAA"))
	c.deny(exceptionEvent(fmt.Errorf("polls.AddParticipant: %w", polls.ErrStateConflict)))

	events := drain(c)
	require.Len(t, events, 1)
	assert.Equal(t, fanout.EventException, events[0].Type)
	assert.Equal(t, KindStateConflict, events[0].Payload.(Exception).Kind)
}

func TestWSConn_HeldEventsBounded(t *testing.T) {
	c := newWSConn(nil, "u1", 1)

	assert.True(t, c.Send(update("AAAAAA")))
	assert.False(t, c.Send(update("BBBBBB")))
}

func TestWSConn_ClosedDropsEvents(t *testing.T) {
	c := newWSConn(nil, "u1", 2)
	c.admit()
	c.Close()

	assert.False(t, c.Send(update("AAAAAA")))
}

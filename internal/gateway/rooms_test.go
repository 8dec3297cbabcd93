package gateway

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) Send(ctx context.Context, event string, payload interface{}) error { return nil }

func TestRegistry_Join_One_Room_One_Connection(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	connID := uuid.NewString()
	sink := nopSink{}

	// Given no room exists
	req.Zero(r.Rooms())

	// When a connection joins
	r.Join(1, connID, sink)

	// Then
	req.Equal(1, r.Rooms())
	members := r.Members(1)
	req.Len(members, 1)
	req.Equal(Sink(sink), members[connID])
}

func TestRegistry_Join_One_Room_Multiple_Connections(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	connA := uuid.NewString()
	connB := uuid.NewString()

	r.Join(1, connA, nopSink{})
	r.Join(1, connB, nopSink{})

	req.Equal(1, r.Rooms())
	req.Len(r.Members(1), 2)
}

func TestRegistry_Leave_Removes_Empty_Room(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	connA := uuid.NewString()
	connB := uuid.NewString()
	r.Join(1, connA, nopSink{})
	r.Join(1, connB, nopSink{})

	r.Leave(1, connA)
	req.Equal(1, r.Rooms())
	req.Len(r.Members(1), 1)

	r.Leave(1, connB)
	req.Zero(r.Rooms())
	req.Nil(r.Members(1))
}

func TestRegistry_Drop_Removes_Connection_From_All_Rooms(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	connID := uuid.NewString()
	other := uuid.NewString()
	r.Join(1, connID, nopSink{})
	r.Join(2, connID, nopSink{})
	r.Join(2, other, nopSink{})

	r.Drop(connID)

	req.Nil(r.Members(1))
	req.Len(r.Members(2), 1)
	req.Equal(1, r.Rooms())
}

func TestRegistry_Members_Returns_Snapshot(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	connID := uuid.NewString()
	r.Join(1, connID, nopSink{})

	members := r.Members(1)
	delete(members, connID)

	// Mutating the snapshot must not touch the registry.
	req.Len(r.Members(1), 1)
}

package services

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestWSConnManagerAddRemove(t *testing.T) {
	m := NewWSConnManager()
	phone := &websocket.Conn{}
	laptop := &websocket.Conn{}

	require.Zero(t, m.ConnCount(1))

	m.Add(1, phone)
	m.Add(1, laptop)
	m.Add(2, &websocket.Conn{})
	require.Equal(t, 2, m.ConnCount(1))
	require.Equal(t, 1, m.ConnCount(2))

	m.Remove(1, phone)
	require.Equal(t, 1, m.ConnCount(1))

	// Removing a connection that was never added is a no-op.
	m.Remove(1, phone)
	require.Equal(t, 1, m.ConnCount(1))

	m.Remove(1, laptop)
	require.Zero(t, m.ConnCount(1))
}

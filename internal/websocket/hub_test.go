package websocket

import (
	"context"
	"testing"
	"time"

	"legifai-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func TestHubDeliversToEveryConnectionOnSession(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	a := newClient(hub, nil, "s1")
	b := newClient(hub, nil, "s1")
	other := newClient(hub, nil, "s2")
	hub.add(a)
	hub.add(b)
	hub.add(other)
	require.Eventually(t, func() bool { return hub.Connections("s1") == 2 }, time.Second, 5*time.Millisecond)

	hub.Deliver(context.Background(), "s1", []byte(`{"reply":"ok"}`))

	assert.Equal(t, `{"reply":"ok"}`, string(<-a.Send))
	assert.Equal(t, `{"reply":"ok"}`, string(<-b.Send))
	assert.Empty(t, other.Send)
}

func TestHubDropClosesClient(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	c := newClient(hub, nil, "s1")
	hub.add(c)
	require.Eventually(t, func() bool { return hub.Connections("s1") == 1 }, time.Second, 5*time.Millisecond)

	hub.drop(c)

	require.Eventually(t, func() bool { return hub.Connections("s1") == 0 }, time.Second, 5*time.Millisecond)
	select {
	case <-c.done:
	case <-time.After(time.Second):
		t.Fatal("client should be closed")
	}
}

func TestHubFullBufferDropsConnection(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	c := newClient(hub, nil, "s1")
	hub.add(c)
	require.Eventually(t, func() bool { return hub.Connections("s1") == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i <= cap(c.Send); i++ {
		hub.Deliver(context.Background(), "s1", []byte("x"))
	}

	require.Eventually(t, func() bool { return hub.Connections("s1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubStoppedDoesNotBlock(t *testing.T) {
	hub, cancel := startHub(t)
	cancel()
	<-hub.stopped

	c := newClient(hub, nil, "s1")
	hub.add(c)
	hub.drop(c)

	select {
	case <-c.done:
	default:
		t.Fatal("late client should be closed immediately")
	}
}

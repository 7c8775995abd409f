package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject string
	data    []byte
	pubErr  error
	flushed bool
	closed  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.subject = subject
	f.data = data
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed = true
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func TestNATSNotifierPublishesJSON(t *testing.T) {
	conn := &fakeConn{}
	n := &NATSNotifier{conn: conn, subject: "buildnative.runs"}

	ev := RunEvent{
		RunID:       "r1",
		Outcome:     "success",
		Destination: "/host/bin/x64/Debug/net5.0/libPlumbusEngine.so",
		DurationMS:  1200,
		FinishedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, n.Notify(context.Background(), ev))

	assert.Equal(t, "buildnative.runs", conn.subject)
	assert.True(t, conn.flushed)

	var got RunEvent
	require.NoError(t, json.Unmarshal(conn.data, &got))
	assert.Equal(t, ev, got)

	require.NoError(t, n.Close())
	assert.True(t, conn.closed)
}

func TestNATSNotifierPublishError(t *testing.T) {
	n := &NATSNotifier{conn: &fakeConn{pubErr: errors.New("connection closed")}, subject: "s"}
	err := n.Notify(context.Background(), RunEvent{RunID: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")
}

func TestNewNATSNotifierRequiresSubject(t *testing.T) {
	_, err := NewNATSNotifier("nats://127.0.0.1:4222", "")
	require.Error(t, err)
}

func TestNoop(t *testing.T) {
	var n Notifier = Noop{}
	assert.NoError(t, n.Notify(context.Background(), RunEvent{}))
	assert.NoError(t, n.Close())
}

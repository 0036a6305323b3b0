package hub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHub_BroadcastAndLeave(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)

	a := h.Join(4)
	b := h.Join(4)
	require.NotNil(t, a)
	require.NotNil(t, b)

	require.True(t, h.Publish(ctx, []byte("<li>one</li>")))
	assert.Equal(t, "<li>one</li>", string(<-a.Send))
	assert.Equal(t, "<li>one</li>", string(<-b.Send))

	h.Leave(a)
	_, open := <-a.Send
	assert.False(t, open)

	cancel()
	<-h.Done()
	_, open = <-b.Send
	assert.False(t, open, "stopping the hub closes remaining subscribers")

	assert.Nil(t, h.Join(1))
	assert.False(t, h.Publish(context.Background(), []byte("late")))
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		<-h.Done()
	}()
	go h.Run(ctx)

	slow := h.Join(1)
	h.Publish(ctx, []byte("1"))
	h.Publish(ctx, []byte("2"))

	assert.Equal(t, "1", string(<-slow.Send))
	_, open := <-slow.Send
	assert.False(t, open)
}

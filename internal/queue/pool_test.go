package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPoolCreatesReservedQueues(t *testing.T) {
	p := NewPool("mod-a")
	for _, name := range []string{"logs", "metrics", "failed", "success"} {
		require.True(t, p.HasQueue(name), "expected reserved queue %q", name)
	}
}

func TestCreateQueueIsIdempotent(t *testing.T) {
	p := NewPool("mod-a")
	q1 := p.CreateQueue("inbox", 16)
	q2 := p.CreateQueue("inbox", 16)
	require.Same(t, q1, q2)
}

func TestAdoptReplacesQueueInstance(t *testing.T) {
	src := NewPool("src")
	dst := NewPool("dst")
	dst.CreateQueue("inbox", 8)

	srcOutbox := src.CreateQueue("outbox", 8)
	require.NoError(t, dst.Adopt("inbox", srcOutbox))
	require.Same(t, srcOutbox, dst.GetQueue("inbox"))
}

func TestAdoptTwiceFails(t *testing.T) {
	src := NewPool("src")
	dst := NewPool("dst")
	dst.CreateQueue("inbox", 8)

	require.NoError(t, dst.Adopt("inbox", src.CreateQueue("a", 8)))
	err := dst.Adopt("inbox", src.CreateQueue("b", 8))
	require.Error(t, err)
}

func TestListQueuesIncludesCreated(t *testing.T) {
	p := NewPool("mod-a")
	p.CreateQueue("inbox", 8)
	names := p.ListQueues()
	require.Contains(t, names, "inbox")
	require.Contains(t, names, "logs")
}

func TestPoolStatsSnapshot(t *testing.T) {
	p := NewPool("mod-a")
	stats := p.Stats()
	require.Contains(t, stats, "logs")
	require.Equal(t, DefaultCapacity, stats["logs"].Capacity)
}

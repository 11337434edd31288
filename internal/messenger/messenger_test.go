package messenger

import (
	"math"
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pregel/internal/resource"
)

func collect(m Messages) []float64 {
	var out []float64
	for v := range m.All() {
		out = append(out, v)
	}
	return out
}

func newMessengers(t *testing.T, nodeCount uint64) map[string]Messenger {
	t.Helper()

	reduced, err := NewReduced(nodeCount, Sum{})
	require.NoError(t, err)

	return map[string]Messenger{
		"reduced": reduced,
		"queue":   NewQueue(nodeCount, nil),
	}
}

func TestMessenger_NoSameSuperstepDelivery(t *testing.T) {
	for name, m := range newMessengers(t, 4) {
		t.Run(name, func(t *testing.T) {
			m.InitIteration(0)
			require.NoError(t, m.SendTo(2, 7))

			assert.False(t, m.HasMessages(2), "message visible in the superstep it was sent")
			assert.True(t, m.Messages(2).IsEmpty())

			m.InitIteration(1)
			assert.True(t, m.HasMessages(2))
			assert.Equal(t, []float64{7}, collect(m.Messages(2)))
			assert.False(t, m.HasMessages(1))

			// Nothing sent in superstep 1.
			m.InitIteration(2)
			assert.False(t, m.HasMessages(2))
			assert.Equal(t, 0, m.Messages(2).Len())
		})
	}
}

func TestMessenger_InvalidTarget(t *testing.T) {
	for name, m := range newMessengers(t, 4) {
		t.Run(name, func(t *testing.T) {
			m.InitIteration(0)
			err := m.SendTo(4, 1)
			assert.ErrorIs(t, err, ErrInvalidNodeID)
		})
	}
}

func TestReduced_MinKeepsSingleMessage(t *testing.T) {
	m, err := NewReduced(3, Min{})
	require.NoError(t, err)

	m.InitIteration(0)
	require.NoError(t, m.SendTo(2, 5))
	require.NoError(t, m.SendTo(2, 2))

	m.InitIteration(1)
	msgs := m.Messages(2)
	assert.Equal(t, 1, msgs.Len())
	got, ok := msgs.First()
	require.True(t, ok)
	assert.Equal(t, 2.0, got)
}

func TestReduced_IdentityValuedMessageIsDelivered(t *testing.T) {
	m, err := NewReduced(2, Sum{})
	require.NoError(t, err)

	m.InitIteration(0)
	require.NoError(t, m.SendTo(1, 0))

	m.InitIteration(1)
	assert.True(t, m.HasMessages(1))
	assert.Equal(t, []float64{0}, collect(m.Messages(1)))
}

func TestReduced_BufferIsResetAfterSwap(t *testing.T) {
	m, err := NewReduced(2, Sum{})
	require.NoError(t, err)

	m.InitIteration(0)
	require.NoError(t, m.SendTo(0, 3))
	m.InitIteration(1)
	require.NoError(t, m.SendTo(0, 4))
	m.InitIteration(2)

	// The superstep-0 value must not leak into superstep 2.
	assert.Equal(t, []float64{4}, collect(m.Messages(0)))
}

func TestReducer_OrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(4711))

	for _, r := range []Reducer{Sum{}, Min{}, Max{}, Count{}} {
		values := make([]float64, 200)
		for i := range values {
			// Integral values keep float addition exact.
			values[i] = float64(rng.Intn(1000) - 500)
		}

		var want float64
		for round := 0; round < 10; round++ {
			rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

			m, err := NewReduced(1, r)
			require.NoError(t, err)
			m.InitIteration(0)

			var wg sync.WaitGroup
			for w := 0; w < 4; w++ {
				wg.Add(1)
				go func(part []float64) {
					defer wg.Done()
					for _, v := range part {
						_ = m.SendTo(0, v)
					}
				}(values[w*50 : (w+1)*50])
			}
			wg.Wait()

			m.InitIteration(1)
			got, ok := m.Messages(0).First()
			require.True(t, ok)
			if round == 0 {
				want = got
				continue
			}
			assert.Equal(t, want, got, "reducer %v not order independent", r)
		}
	}
}

func TestValidateReducer(t *testing.T) {
	assert.NoError(t, ValidateReducer(Sum{}))
	assert.NoError(t, ValidateReducer(Min{}))
	assert.ErrorIs(t, ValidateReducer(nil), ErrInvalidReducer)
	assert.ErrorIs(t, ValidateReducer(nanReducer{}), ErrInvalidReducer)

	_, err := NewReduced(1, nanReducer{})
	assert.ErrorIs(t, err, ErrInvalidReducer)
}

type nanReducer struct{}

func (nanReducer) Identity() float64 {
	return math.NaN()
}

func (nanReducer) Reduce(current, message float64) float64 {
	return current + message
}

func TestQueue_ConcurrentSendersKeepAllMessages(t *testing.T) {
	const senders = 8
	const perSender = 500

	m := NewQueue(2, nil)
	m.InitIteration(0)

	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				assert.NoError(t, m.SendTo(1, float64(base*perSender+i)))
			}
		}(s)
	}
	wg.Wait()

	m.InitIteration(1)
	got := collect(m.Messages(1))
	require.Len(t, got, senders*perSender)

	slices.Sort(got)
	for i, v := range got {
		assert.Equal(t, float64(i), v)
	}
}

func TestQueue_MemoryLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{LimitBytes: 4 * bytesPerMessage})
	m := NewQueue(2, rc)
	m.InitIteration(0)

	for i := 0; i < 4; i++ {
		require.NoError(t, m.SendTo(0, float64(i)))
	}
	err := m.SendTo(0, 4)
	require.ErrorIs(t, err, ErrMemoryExhausted)
	assert.ErrorIs(t, err, resource.ErrLimitExceeded)

	m.Release()
	assert.Equal(t, int64(0), rc.Used())
}

func TestQueue_CapacityReusedAcrossSupersteps(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	m := NewQueue(1, rc)

	for step := 0; step < 5; step++ {
		m.InitIteration(step)
		for i := 0; i < 3; i++ {
			require.NoError(t, m.SendTo(0, 1))
		}
	}
	// Two lists of capacity 4, never regrown.
	assert.Equal(t, int64(2*4*bytesPerMessage), rc.Used())
}

func TestMessages_Iteration(t *testing.T) {
	m := NewMessages([]float64{1, 2, 3})
	assert.Equal(t, 3, m.Len())
	assert.False(t, m.IsEmpty())

	var seen []float64
	for v := range m.All() {
		seen = append(seen, v)
		if v == 2 {
			break
		}
	}
	assert.Equal(t, []float64{1, 2}, seen)

	first, ok := m.First()
	assert.True(t, ok)
	assert.Equal(t, 1.0, first)

	var empty Messages
	_, ok = empty.First()
	assert.False(t, ok)
	assert.True(t, empty.IsEmpty())
}

package dedup

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldProcess(t *testing.T) {
	t.Run("first sight passes, repeat is dropped", func(t *testing.T) {
		d := New(time.Minute, 100)
		assert.True(t, d.ShouldProcess("evt-1"))
		assert.False(t, d.ShouldProcess("evt-1"))
		assert.True(t, d.ShouldProcess("evt-2"))
	})

	t.Run("empty id always passes", func(t *testing.T) {
		d := New(time.Minute, 100)
		assert.True(t, d.ShouldProcess(""))
		assert.True(t, d.ShouldProcess(""))
	})

	t.Run("expired entry is processed again", func(t *testing.T) {
		d := New(time.Millisecond, 100)
		assert.True(t, d.ShouldProcess("evt-1"))
		time.Sleep(5 * time.Millisecond)
		assert.True(t, d.ShouldProcess("evt-1"))
	})

	t.Run("cap bounds the tracked set", func(t *testing.T) {
		d := New(time.Hour, 10)
		for i := 0; i < 50; i++ {
			assert.True(t, d.ShouldProcess(fmt.Sprintf("evt-%d", i)))
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		assert.LessOrEqual(t, len(d.seen), 11)
	})
}

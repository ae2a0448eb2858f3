package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/suitetree/pkg/launcher"
)

var _ launcher.RunIDGenerator = (*ConstantRunID)(nil)

func TestConstantRunID_ReturnsSameID(t *testing.T) {
	gen := NewConstantRunID("run-123")

	assert.Equal(t, "run-123", gen.Generate())
	assert.Equal(t, "run-123", gen.Generate())
	assert.Equal(t, "run-123", gen.Generate())
}

func TestConstantRunID_EmptyDefault(t *testing.T) {
	gen := NewConstantRunID("")
	assert.Equal(t, "run-test", gen.Generate())
}

func TestConstantRunID_ThreadSafe(t *testing.T) {
	gen := NewConstantRunID("thread-safe")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "thread-safe", gen.Generate())
			}
		}()
	}
	wg.Wait()
}

package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisabledManager(t *testing.T) {
	pm := NewManager(Config{Enabled: false})
	bar := pm.CreateBar(3, "Processing")
	assert.False(t, bar.enabled)

	// All calls are no-ops.
	bar.Increment(time.Millisecond)
	bar.Complete()
	pm.Wait()
}

func TestEnabledManager(t *testing.T) {
	var buf bytes.Buffer
	pm := NewManager(Config{Enabled: true, Writer: &buf})
	bar := pm.CreateBar(2, "Processing")
	assert.True(t, bar.enabled)

	bar.Increment(10 * time.Millisecond)
	bar.Increment(10 * time.Millisecond)
	pm.Wait()
	assert.Contains(t, buf.String(), "Processing")
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

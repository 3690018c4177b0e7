package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvgWindowTwoSampleRollingAverage(t *testing.T) {
	w := newAvgWindow(2)
	assert.Equal(t, float32(0), w.avg())

	w.push(1.0)
	assert.Equal(t, float32(0.5), w.avg()) // {0, 1.0}

	w.push(0.5)
	assert.Equal(t, float32(0.75), w.avg()) // {1.0, 0.5}

	w.clear()
	assert.Equal(t, float32(0), w.avg())
}

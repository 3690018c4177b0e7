package audio

import (
	"testing"
	"time"

	"github.com/kbolino/go-coco/coco/pia"
	"github.com/stretchr/testify/assert"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(NewChannel(), 48000, 8)
}

func TestWriteSampleAppliesGainAndSmoothing(t *testing.T) {
	p := newTestPipeline()
	buf := newSampleQueue(4)

	p.writeSample(pia.AudioSample{Data: 1.0, Time: time.Unix(0, 0)}, buf)

	v, ok := buf.readNext()
	assert.True(t, ok)
	assert.InDelta(t, 0.475, v, 1e-6, "gain 0.95 then averaged against the zero-initialized window")
}

func TestWriteSampleClampsToLimiterRange(t *testing.T) {
	p := newTestPipeline()
	p.avg = newAvgWindow(1) // isolate the clamp from smoothing
	buf := newSampleQueue(4)

	p.writeSample(pia.AudioSample{Data: 10.0, Time: time.Unix(0, 0)}, buf)
	v, _ := buf.readNext()
	assert.Equal(t, float32(0.95), v)

	p.writeSample(pia.AudioSample{Data: -10.0, Time: time.Unix(0, 1)}, buf)
	v, _ = buf.readNext()
	assert.Equal(t, float32(-0.95), v)
}

func TestWriteSampleFailsOnFullBuffer(t *testing.T) {
	p := newTestPipeline()
	buf := newSampleQueue(1)

	assert.True(t, p.writeSample(pia.AudioSample{Data: 0.1, Time: time.Unix(0, 0)}, buf))
	assert.False(t, p.writeSample(pia.AudioSample{Data: 0.2, Time: time.Unix(0, 1)}, buf))
}

func TestDeliverCyclesBufferWhenFull(t *testing.T) {
	p := newTestPipeline()
	p.current = newSampleQueue(1)
	p.silentBuffer = true

	ok := p.deliver(pia.AudioSample{Data: 0.5, Time: time.Unix(0, 0)})
	assert.True(t, ok)
	assert.NotNil(t, p.current, "the first write into a size-1 buffer succeeds and is kept for reuse")

	// the buffer is now full; the next delivery must cycle it out and fetch
	// a fresh one from the pool.
	ok = p.deliver(pia.AudioSample{Data: 0.5, Time: time.Unix(0, 1)})
	assert.True(t, ok)
	assert.Equal(t, 1, p.pool.fullCount(), "the first, now-full buffer was handed to the full queue")
}

func TestDeliverReturnsFalseWhenPoolExhausted(t *testing.T) {
	p := newTestPipeline()
	for {
		buf := p.pool.getEmpty()
		if buf == nil {
			break
		}
	}

	ok := p.deliver(pia.AudioSample{Data: 0.5, Time: time.Unix(0, 0)})
	assert.False(t, ok)
}

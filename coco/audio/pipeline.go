package audio

import (
	"time"

	"github.com/kbolino/go-coco/coco/pia"
)

// Pipeline turns PIA1's aperiodic DAC/sound samples into a steady stream of
// fixed-size buffers a device callback can drain without blocking. It is
// the only place samples are gained, limited, and smoothed.
type Pipeline struct {
	channel *Channel
	pool    *bufferPool
	current *sampleQueue

	sampleDuration time.Duration
	bufferDuration time.Duration

	lastWritten  pia.AudioSample
	silentBuffer bool
	gain         float32
	avg          *avgWindow

	lastRecv time.Time
}

// NewPipeline builds a pipeline for a device streaming at sampleRate Hz in
// buffers of bufferFrames samples, reading from channel.
func NewPipeline(channel *Channel, sampleRate, bufferFrames int) *Pipeline {
	sampleDuration := time.Duration(float64(time.Second) / float64(sampleRate))
	return &Pipeline{
		channel:        channel,
		pool:           newBufferPool(bufferFrames),
		sampleDuration: sampleDuration,
		bufferDuration: sampleDuration * time.Duration(bufferFrames),
		lastWritten:    pia.AudioSample{Time: time.Now()},
		gain:           0.95,
		avg:            newAvgWindow(2),
		lastRecv:       time.Now(),
	}
}

// Run drives the pipeline until stop is closed. It's meant to run on its
// own goroutine for the lifetime of the emulator.
func (p *Pipeline) Run(stop <-chan struct{}) {
	var pending *pia.AudioSample
	for {
		select {
		case <-stop:
			return
		default:
		}

		var sample pia.AudioSample
		switch {
		case pending != nil:
			time.Sleep(p.sampleDuration)
			sample = *pending
			pending = nil
		default:
			if s, ok := p.channel.TryReceive(); ok {
				p.lastRecv = time.Now()
				sample = s
			} else {
				if time.Since(p.lastRecv) >= p.bufferDuration {
					p.lastWritten = pia.AudioSample{Time: time.Now()}
					p.avg.clear()
				}
				haveWork := p.current != nil || p.lastWritten.Data != 0
				if haveWork && time.Since(p.lastWritten.Time) > p.sampleDuration {
					sample = pia.AudioSample{
						Data: p.lastWritten.Data,
						Time: p.lastWritten.Time.Add(p.sampleDuration),
					}
				} else {
					time.Sleep(p.sampleDuration)
					continue
				}
			}
		}

		if !p.deliver(sample) {
			pending = &sample
			time.Sleep(p.sampleDuration)
		}
	}
}

// deliver writes one sample into the pipeline's current output buffer,
// fetching a fresh one from the pool when needed and cycling full/silent
// buffers back to the pool as they fill. Interpolates any gap since the
// previous sample first. Returns false if no empty buffer was available at
// all, in which case the caller must retry this same sample later.
func (p *Pipeline) deliver(sample pia.AudioSample) bool {
	for {
		if p.current == nil {
			p.current = p.pool.getEmpty()
			p.silentBuffer = true
			if p.current == nil {
				return false
			}
		}

		elapsed := sample.Time.Sub(p.lastWritten.Time)
		if elapsed > p.sampleDuration && elapsed < p.bufferDuration {
			p.interpolateFill(sample, p.current)
		}

		if p.writeSample(sample, p.current) {
			return true
		}

		// buffer is full: cycle it out and try again with a fresh one
		p.returnCurrent()
	}
}

func (p *Pipeline) returnCurrent() {
	if p.silentBuffer {
		p.pool.putEmpty(p.current)
	} else {
		p.pool.putFull(p.current)
	}
	p.current = nil
}

// writeSample applies gain, limiting, and smoothing, then appends the
// result to buf. Returns false if buf was already full.
func (p *Pipeline) writeSample(sample pia.AudioSample, buf *sampleQueue) bool {
	if buf.capacityRemaining() == 0 {
		return false
	}
	data := sample.Data * p.gain
	if data > 0.95 {
		data = 0.95
	}
	if data < -0.95 {
		data = -0.95
	}
	p.avg.push(data)
	data = p.avg.avg()

	buf.writeNext(data)

	sample.Data = data
	p.lastWritten = sample
	if data != 0 {
		p.silentBuffer = false
	}
	return true
}

// interpolateFill linearly interpolates between the previous sample and
// end, writing intermediate samples into buf to cover the gap between
// aperiodic DAC writes.
func (p *Pipeline) interpolateFill(end pia.AudioSample, buf *sampleQueue) {
	start := p.lastWritten
	startTime := start.Time.Add(p.sampleDuration)
	if !end.Time.After(startTime) {
		return
	}
	period := end.Time.Sub(startTime)
	if period > p.bufferDuration {
		period = p.bufferDuration
		start.Time = end.Time.Add(-period)
	}
	count := int(period.Seconds()/p.sampleDuration.Seconds() + 0.5)
	if count < 1 {
		count = 1
	}
	delta := (end.Data - start.Data) / float32(count)

	sample := start
	for i := 0; i < count; i++ {
		sample.Time = sample.Time.Add(p.sampleDuration)
		sample.Data += delta
		if !p.writeSample(sample, buf) {
			break
		}
	}
}

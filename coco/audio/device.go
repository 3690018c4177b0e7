package audio

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gen2brain/malgo"
	"github.com/kbolino/go-coco/coco/pia"
)

// Device owns the malgo playback stream, the pipeline feeding it, and the
// pool of buffers shuttled between them. Sink returns the pia.AudioSink
// that the caller wires into PIA1.
type Device struct {
	ctx      *malgo.AllocatedContext
	device   *malgo.Device
	pipeline *Pipeline
	stop     chan struct{}

	streaming bool
	current   *sampleQueue
}

// NewDevice opens the system's default audio output device and starts the
// pipeline goroutine. Call Sink to get the pia.AudioSink to wire into PIA1,
// and Close to tear everything down.
func NewDevice() (*Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		slog.Debug("malgo", "msg", msg)
	})
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = 2
	cfg.SampleRate = 48000
	cfg.PeriodSizeInFrames = 1024

	channel := NewChannel()
	d := &Device{ctx: ctx, pipeline: NewPipeline(channel, int(cfg.SampleRate), int(cfg.PeriodSizeInFrames)), stop: make(chan struct{})}

	callbacks := malgo.DeviceCallbacks{
		Data: d.fillOutput,
	}
	dev, err := malgo.InitDevice(ctx.Context, cfg, callbacks)
	if err != nil {
		ctx.Free()
		return nil, fmt.Errorf("init audio device: %w", err)
	}
	d.device = dev

	if err := dev.Start(); err != nil {
		dev.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("start audio device: %w", err)
	}

	go d.pipeline.Run(d.stop)
	return d, nil
}

// Sink returns the pia.AudioSink PIA1 should send samples to.
func (d *Device) Sink() pia.AudioSink {
	return d.pipeline.channel
}

// Close stops the pipeline goroutine and tears down the malgo device.
func (d *Device) Close() {
	close(d.stop)
	d.device.Uninit()
	d.ctx.Free()
}

// fillOutput is malgo's playback callback: it must never block. It drains
// full buffers from the pool, replicates each mono sample across every
// output channel, and zero-fills (stopping the streaming pre-roll) once
// starved.
func (d *Device) fillOutput(output, _ []byte, frameCount uint32) {
	channels := 2
	bytesPerSample := 4 // float32
	written := 0

	for written < int(frameCount) {
		if d.current == nil {
			if d.streaming || d.pipeline.pool.fullCount() > 1 {
				d.current = d.pipeline.pool.getFull()
			}
			if d.current == nil {
				d.streaming = false
				zeroFill(output, written, int(frameCount), channels, bytesPerSample)
				return
			}
			d.streaming = true
		}

		sample, ok := d.current.readNext()
		if !ok {
			d.pipeline.pool.putEmpty(d.current)
			d.current = nil
			continue
		}
		writeFrame(output, written, channels, bytesPerSample, sample)
		written++
	}
}

func writeFrame(output []byte, frame, channels, bytesPerSample int, sample float32) {
	bits := math.Float32bits(sample)
	for ch := 0; ch < channels; ch++ {
		base := (frame*channels + ch) * bytesPerSample
		output[base+0] = byte(bits)
		output[base+1] = byte(bits >> 8)
		output[base+2] = byte(bits >> 16)
		output[base+3] = byte(bits >> 24)
	}
}

func zeroFill(output []byte, fromFrame, frameCount, channels, bytesPerSample int) {
	for f := fromFrame; f < frameCount; f++ {
		writeFrame(output, f, channels, bytesPerSample, 0)
	}
}

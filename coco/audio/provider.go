package audio

import "github.com/kbolino/go-coco/coco/pia"

// Provider is the playback side of the audio pipeline: something that can
// hand PIA1 a sink to write samples into and be torn down when the
// emulator exits. Device is the only real implementation; tests can supply
// a fake.
type Provider interface {
	Sink() pia.AudioSink
	Close()
}

var _ Provider = (*Device)(nil)

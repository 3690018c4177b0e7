package audio

import (
	"testing"
	"time"

	"github.com/kbolino/go-coco/coco/pia"
	"github.com/stretchr/testify/assert"
)

func TestChannelSendAndReceiveFIFO(t *testing.T) {
	c := NewChannel()
	_, ok := c.TryReceive()
	assert.False(t, ok)

	c.Send(pia.AudioSample{Data: 0.1, Time: time.Unix(1, 0)})
	c.Send(pia.AudioSample{Data: 0.2, Time: time.Unix(2, 0)})

	first, ok := c.TryReceive()
	assert.True(t, ok)
	assert.Equal(t, float32(0.1), first.Data)

	second, ok := c.TryReceive()
	assert.True(t, ok)
	assert.Equal(t, float32(0.2), second.Data)

	_, ok = c.TryReceive()
	assert.False(t, ok)
}

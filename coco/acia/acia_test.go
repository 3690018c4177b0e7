package acia

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestACIA_AcceptOnlyClaimedAddress(t *testing.T) {
	a, err := New(0xFFD0, 0, false, false)
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Accept(0xFFD0))
	assert.False(t, a.Accept(0xFF00))
}

func TestACIA_ReadReturnsZeroWhenIdle(t *testing.T) {
	a, err := New(0xFFD0, 0, false, false)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, uint8(0), a.Read(0xFFD0))
}

func TestACIA_RoundTripsBytesOverTCP(t *testing.T) {
	a, err := New(0xFFD0, 0, false, true)
	require.NoError(t, err)
	defer a.Close()

	conn, err := net.Dial("tcp", a.listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{'a'})
	require.NoError(t, err)

	var got uint8
	for i := 0; i < 100; i++ {
		got = a.Read(0xFFD0)
		if got != 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, uint8('A'), got, "caseFold uppercases received bytes")

	a.Write(0xFFD0, 'z')
	buf := make([]byte, 1)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, byte('z'), buf[0])
}

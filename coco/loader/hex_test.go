package loader

import (
	"strings"
	"testing"

	"github.com/kbolino/go-coco/coco/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	writes map[uint16]uint8
}

func newFakeWriter() *fakeWriter { return &fakeWriter{writes: make(map[uint16]uint8)} }

func (w *fakeWriter) Write8(access memory.AccessType, address uint16, data uint8) {
	w.writes[address] = data
}

func TestLoadHex_DataRecordsWriteBytes(t *testing.T) {
	// :02 0000 00 1234 B8  (length 2, addr 0, type data, bytes 12 34, checksum)
	// sum = 02+00+00+00+12+34 = 0x48; checksum = -0x48 & 0xFF = 0xB8
	hex := ":020000001234B8\n:00000001FF\n"
	w := newFakeWriter()

	err := LoadHex(w, strings.NewReader(hex), 0x7FFF)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x12), w.writes[0x0000])
	assert.Equal(t, uint8(0x34), w.writes[0x0001])
}

func TestLoadHex_MissingEOFIsError(t *testing.T) {
	hex := ":020000001234B8\n"
	w := newFakeWriter()

	err := LoadHex(w, strings.NewReader(hex), 0x7FFF)
	require.Error(t, err)
}

func TestLoadHex_BadChecksumIsError(t *testing.T) {
	hex := ":020000001234FF\n:00000001FF\n"
	w := newFakeWriter()

	err := LoadHex(w, strings.NewReader(hex), 0x7FFF)
	require.Error(t, err)
}

func TestLoadHex_AboveRAMTopStillLoads(t *testing.T) {
	// :02 8000 00 AABB 19 -> sum = 02+80+00+00+AA+BB = 0x1E7; checksum = -0xE7 & 0xFF = 0x19
	hex := ":02800000AABB19\n:00000001FF\n"
	w := newFakeWriter()

	err := LoadHex(w, strings.NewReader(hex), 0x7FFF)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAA), w.writes[0x8000])
}

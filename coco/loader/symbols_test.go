package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSymbols_ParsesHexAndDecimal(t *testing.T) {
	body := "# comment\n\nRESET 0x8000\nCOUNTER 100\n"

	symbols, err := LoadSymbols(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8000), symbols["RESET"])
	assert.Equal(t, uint16(100), symbols["COUNTER"])
	assert.Len(t, symbols, 2)
}

func TestLoadSymbols_MalformedLineErrors(t *testing.T) {
	_, err := LoadSymbols(strings.NewReader("RESET 0x8000 extra\n"))
	require.Error(t, err)
}

func TestLoadSymbols_BadAddressErrors(t *testing.T) {
	_, err := LoadSymbols(strings.NewReader("RESET notanumber\n"))
	require.Error(t, err)
}

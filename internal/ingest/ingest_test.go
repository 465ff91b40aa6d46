package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	data := []byte("country,name,address\nUS,Acme Mfg,100 Main St\n")
	header, rows, err := ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, "country,name,address", header)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"US", "Acme Mfg", "100 Main St"}, rows[0])
}

func TestReadCSVStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("country,name,address\nUS,Acme,100 Main St\n")...)
	header, _, err := ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, "country,name,address", header)
}

func TestReadCSVRejectsBadEncoding(t *testing.T) {
	data := []byte{0xFF, 0xFE, 0x00, 0x01}
	_, _, err := ReadCSV(data)
	require.ErrorIs(t, err, ErrBadEncoding)
}

func TestReadCSVEmpty(t *testing.T) {
	header, rows, err := ReadCSV([]byte{})
	require.NoError(t, err)
	assert.Equal(t, "", header)
	assert.Nil(t, rows)
}

func TestReadCSVPreservesQuotedHeaderField(t *testing.T) {
	data := []byte(`country,"name, doing business as",address` + "\nUS,Acme Mfg,100 Main St\n")
	header, _, err := ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, `country,"name, doing business as",address`, header)
}

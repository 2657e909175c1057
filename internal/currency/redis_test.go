package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRateHash(t *testing.T) {
	rates, err := parseRateHash(map[string]string{
		"usd": `{"name":"US Dollar","symbol":"$","rate":"1"}`,
		"EUR": `{"name":"Euro","symbol":"€","rate":"1.1"}`,
		"KES": `{"rate":0.0077}`,
	})
	require.NoError(t, err)
	require.Len(t, rates, 3)

	assert.Equal(t, "USD", rates["USD"].Code)
	assert.True(t, rates["EUR"].RateToReference.Equal(dec("1.1")))
	assert.Equal(t, "KES", rates["KES"].DisplayName)

	conv, err := NewConverter(rates, "USD")
	require.NoError(t, err)
	got, err := conv.Convert(dec("10"), "EUR", "USD")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("11")))
}

func TestParseRateHashErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"bad json":      {"EUR": `not json`},
		"zero rate":     {"EUR": `{"rate":"0"}`},
		"negative rate": {"EUR": `{"rate":"-1"}`},
		"missing rate":  {"EUR": `{"name":"Euro"}`},
	}
	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseRateHash(fields)
			assert.Error(t, err)
		})
	}
}

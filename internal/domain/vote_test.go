package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVote_Marshal_Numeric(t *testing.T) {
	req := require.New(t)

	b, err := json.Marshal(NumericVote(5))
	req.NoError(err)
	req.Equal("5", string(b))

	b, err = json.Marshal(NumericVote(0.5))
	req.NoError(err)
	req.Equal("0.5", string(b))
}

func TestVote_Marshal_Sentinel(t *testing.T) {
	req := require.New(t)

	b, err := json.Marshal(SentinelVote("?"))
	req.NoError(err)
	req.Equal(`"?"`, string(b))
}

func TestVote_Unmarshal_RoundTrip(t *testing.T) {
	req := require.New(t)

	var v Vote
	req.NoError(json.Unmarshal([]byte("8"), &v))
	req.True(v.IsNumeric())
	req.Equal(8.0, v.Value())

	req.NoError(json.Unmarshal([]byte(`"☕"`), &v))
	req.False(v.IsNumeric())
	req.Equal("☕", v.Label())
}

func TestVote_Unmarshal_Garbage(t *testing.T) {
	req := require.New(t)

	var v Vote
	req.Error(json.Unmarshal([]byte(`{"x":1}`), &v))
}

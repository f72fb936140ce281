package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	in := map[string]string{"thewayofkings": "B00ZVA3XL6"}

	data, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, JSON{}.Unmarshal(data, &out))
	require.Equal(t, in, out)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	require.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	require.False(t, ok)
}

package codec

import (
	"testing"

	"github.com/hupe1980/indextable/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json", "yaml"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_Books(t *testing.T) {
	books := testutil.Books()

	for _, c := range []Codec{JSON{}, GoJSON{}, YAML{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(books)
			require.NoError(t, err)

			var got []testutil.Book
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, books, got)
		})
	}
}

func TestJSONAndGoJSONAgree(t *testing.T) {
	books := testutil.Books()
	a, err := JSON{}.Marshal(books)
	require.NoError(t, err)
	b, err := GoJSON{}.Marshal(books)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

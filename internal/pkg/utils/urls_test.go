package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLsToString(t *testing.T) {
	assert.Equal(t, "[]", URLsToString(nil))
	assert.Equal(t, "[]", URLsToString([]string{}))
	assert.Equal(t, `["https://a/1.jpg","https://a/2.jpg"]`, URLsToString([]string{"https://a/1.jpg", "https://a/2.jpg"}))
}

func TestStringToURLs(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "empty array", in: "[]", want: []string{}},
		{name: "json null", in: "null", want: []string{}},
		{name: "json array", in: `["x","y"]`, want: []string{"x", "y"}},
		{name: "comma fallback", in: "x, y,,z", want: []string{"x", "y", "z"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StringToURLs(tc.in))
		})
	}
}

func TestURLListScan(t *testing.T) {
	var l URLList
	require.NoError(t, l.Scan([]byte(`["a"]`)))
	assert.Equal(t, URLList{"a"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, URLList{}, l)

	assert.Error(t, l.Scan(42))
}

func TestURLListNilMarshalsAsEmptyArray(t *testing.T) {
	payload := struct {
		Photos URLList `json:"photos"`
	}{}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"photos":[]}`, string(b))

	v, err := URLList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

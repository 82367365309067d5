package tv

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sfr-epg/consts"
)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newFeedServer(t *testing.T, feeds map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != consts.UA {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		body, ok := feeds[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetPrograms(t *testing.T) {
	raw, err := os.ReadFile("testdata/20240101.xml")
	require.NoError(t, err)
	srv := newFeedServer(t, map[string][]byte{"/20240101.gz": gzipped(t, raw)})

	c := NewClient(srv.URL+"/", srv.Client(), zerolog.Nop())
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, srv.URL+"/20240101.gz", c.FeedURL(day))

	feed, err := c.GetPrograms(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, feed.Channels, 4)
	require.Len(t, feed.Programmes, 2)

	p := feed.Programmes[0]
	assert.Equal(t, "chan_a", p.Channel)
	assert.Equal(t, "20240101050000 +0100", p.Start)
	assert.Equal(t, "123", p.ID)
	require.NotNil(t, p.Title)
	assert.Equal(t, " Le Journal ", *p.Title)
	assert.Equal(t, "Information", p.MetaCategory)
	require.NotNil(t, p.StarRating)
	assert.Equal(t, "3/5", p.StarRating.Value)
	assert.Nil(t, feed.Programmes[1].StarRating)
}

func TestClient_GetPrograms_Errors(t *testing.T) {
	srv := newFeedServer(t, map[string][]byte{
		"/20240102.gz": []byte("not gzip at all"),
		"/20240103.gz": gzipped(t, []byte("<tv><programme></tv>")),
	})
	c := NewClient(srv.URL, srv.Client(), zerolog.Nop())
	ctx := context.Background()

	_, err := c.GetPrograms(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, ErrUnexpectedStatus)

	_, err = c.GetPrograms(ctx, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.ErrorContains(t, err, "decompress")

	_, err = c.GetPrograms(ctx, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	require.ErrorContains(t, err, "parse")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil, zerolog.Nop())
	assert.Equal(t, consts.SFR_API_URL, c.BaseURL())
	assert.Equal(t, consts.SFR_API_URL+"/20241231.gz", c.FeedURL(time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)))
}

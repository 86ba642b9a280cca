package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"scd/internal/models"
	"scd/internal/structures"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUpstream(url string) UpstreamSenderInterface {
	conf := &structures.Config{
		Upstream: structures.Upstream{Url: url, Timeout: 5 * time.Second},
	}
	return NewUpstreamSender(conf, nopLogger{})
}

func TestUpstreamSender_Send(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"status":"ok","retcode":0}`))
	}))
	defer srv.Close()

	sender := newTestUpstream(srv.URL + "/")
	params := &models.SendParams{
		Message: models.Message{models.TextSegment("hi")},
		GroupID: 42,
	}
	raw, err := sender.Send(context.Background(), "send_group_msg", params)
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"ok","retcode":0}`, string(raw))
	assert.Equal(t, "/send_group_msg", gotPath)
	assert.Equal(t, "application/json", gotContentType)

	var decoded models.SendParams
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, int64(42), decoded.GroupID)
	assert.Equal(t, "hi", decoded.Message.PlainText())
}

func TestUpstreamSender_Send_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sender := newTestUpstream(srv.URL)
	_, err := sender.Send(context.Background(), "send_msg", &models.SendParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestUpstreamSender_Send_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listens anymore

	sender := newTestUpstream(srv.URL)
	_, err := sender.Send(context.Background(), "send_msg", &models.SendParams{})
	assert.Error(t, err)
}

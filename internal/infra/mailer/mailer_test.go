package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendgridSenderPostsV3Payload(t *testing.T) {
	var got map[string]any
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendgrid("sg-key", "hello@auvora.io", "Auvora", srv.URL)
	err := s.Send(context.Background(), Mail{To: "ana@example.com", ToName: "Ana", Subject: "Welcome", Text: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sg-key", auth)
	assert.Equal(t, "/v3/mail/send", path)
	from := got["from"].(map[string]any)
	assert.Equal(t, "hello@auvora.io", from["email"])
	p := got["personalizations"].([]any)[0].(map[string]any)
	assert.Equal(t, "Welcome", p["subject"])
}

func TestSendgridSenderReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	err := NewSendgrid("bad", "a@b.c", "", srv.URL).Send(context.Background(), Mail{To: "x@y.z", Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

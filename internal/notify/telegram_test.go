package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTelegramRequiresCredentials(t *testing.T) {
	_, err := NewTelegram("", "123")
	assert.Error(t, err)
	_, err = NewTelegram("token", "  ")
	assert.Error(t, err)
	_, err = NewTelegram("token", "123")
	assert.NoError(t, err)
}

func TestTelegramNotify(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("testtoken", "42")
	require.NoError(t, err)
	tg.base = srv.URL

	require.NoError(t, tg.Notify(context.Background(), "source down"))
	assert.Equal(t, "/bottesttoken/sendMessage", gotPath)
	assert.Equal(t, "42", gotBody["chat_id"])
	assert.Equal(t, "source down", gotBody["text"])
}

func TestTelegramNotifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tg, err := NewTelegram("bad", "42")
	require.NoError(t, err)
	tg.base = srv.URL

	assert.Error(t, tg.Notify(context.Background(), "hello"))
}

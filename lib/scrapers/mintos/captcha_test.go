package mintos

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	transcript string
	err        error
}

func (r fakeRecognizer) Recognize(ctx context.Context, audio []byte, contentType string) (string, error) {
	return r.transcript, r.err
}

func registerChallengeLogin(mux *http.ServeMux, verified *map[string]string) {
	mux.HandleFunc(loginPagePath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<div id="captcha" data-challenge-id="ch-42" data-audio-url="/challenge.mp3"></div>
		</body></html>`))
	})
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "fresh", Path: "/"})
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/challenge.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "audio/mpeg")
		w.Write([]byte("not really audio"))
	})
	mux.HandleFunc(captchaVerifyPath, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var answer map[string]string
		json.Unmarshal(body, &answer)
		*verified = answer
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc(overviewPagePath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div id="header-wrapper"></div>`))
	})
	mux.HandleFunc(webAppPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<meta name="csrf-token" content="tok-ch">`))
	})
}

func TestLoginSolvesAudioChallenge(t *testing.T) {
	shortLoginTimeouts(t)

	var verified map[string]string
	mux := http.NewServeMux()
	registerChallengeLogin(mux, &verified)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl:    server.URL,
		Email:      "user@example.com",
		Password:   "hunter2",
		Store:      testStore(t),
		Recognizer: fakeRecognizer{transcript: "seven three one"},
	})
	require.NoError(t, err)
	require.Equal(t, "tok-ch", client.SigningToken)
	require.Equal(t, map[string]string{
		"challengeId": "ch-42",
		"answer":      "seven three one",
	}, verified)
}

func TestLoginFailsWhenChallengeUnresolvable(t *testing.T) {
	shortLoginTimeouts(t)

	var verified map[string]string
	mux := http.NewServeMux()
	registerChallengeLogin(mux, &verified)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	// no recognizer configured, the challenge cannot be answered
	_, err := NewClient(context.Background(), ClientOptions{
		BaseUrl:  server.URL,
		Email:    "user@example.com",
		Password: "hunter2",
		Store:    testStore(t),
	})
	require.ErrorIs(t, err, ErrChallengeUnresolvable)
}

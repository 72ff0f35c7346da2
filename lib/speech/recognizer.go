package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lendfolio/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// ErrNoTranscript means the recognizer could not produce usable text from
// the audio, typically because of low confidence.
var ErrNoTranscript = fmt.Errorf("no transcript could be produced from the audio")

// Recognizer turns challenge audio into text. Implementations are expected
// to be external services; recognition internals are out of scope here.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, contentType string) (string, error)
}

type HttpRecognizerOptions struct {
	// full URL of the speech-to-text endpoint
	Endpoint string
	// bearer token, optional
	Token string
}

// HttpRecognizer posts raw audio bytes to a speech-to-text HTTP API and
// reads the transcript out of its JSON response.
type HttpRecognizer struct {
	http     *resty.Client
	endpoint string
}

func NewHttpRecognizer(opts HttpRecognizerOptions) HttpRecognizer {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	if opts.Token != "" {
		client.SetHeader("Authorization", "Bearer "+opts.Token)
	}

	telemetry.InstrumentResty(client, "speech/http")

	return HttpRecognizer{
		http:     client,
		endpoint: opts.Endpoint,
	}
}

func (r HttpRecognizer) Recognize(ctx context.Context, audio []byte, contentType string) (string, error) {
	res, err := r.http.R().
		SetContext(ctx).
		SetHeader("content-type", contentType).
		SetBody(audio).
		Post(r.endpoint)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Text string `json:"text"`
	}
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		return "", err
	}
	if parsed.Text == "" {
		return "", ErrNoTranscript
	}
	return parsed.Text, nil
}

package mintos

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
)

// solveChallenge resolves an audio challenge block raised during login. The
// server embeds a challenge id and an audio clip URL in the block; the clip
// is transcribed and the transcript submitted as the answer. Any failure
// along the way is unrecoverable for this login attempt.
func (c *Client) solveChallenge(ctx context.Context, block *goquery.Selection) error {
	ctx, span := tracer.Start(ctx, "client:solveChallenge")
	defer span.End()

	if c.recognizer == nil {
		return ErrChallengeUnresolvable
	}

	challengeId, ok := block.Attr("data-challenge-id")
	if !ok || challengeId == "" {
		return ErrChallengeUnresolvable
	}
	audioUrl, ok := block.Attr("data-audio-url")
	if !ok || audioUrl == "" {
		return ErrChallengeUnresolvable
	}

	slog.InfoContext(ctx, "solving login challenge", "challenge_id", challengeId)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(audioUrl)
	if err != nil {
		return AvailabilityError{Step: "fetch challenge audio", Err: err}
	}

	transcript, err := c.recognizer.Recognize(ctx, res.Body(), res.Header().Get("content-type"))
	if err != nil {
		span.RecordError(err)
		return ErrChallengeUnresolvable
	}

	body, err := json.Marshal(map[string]string{
		"challengeId": challengeId,
		"answer":      transcript,
	})
	if err != nil {
		return err
	}

	verify, err := c.Http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body).
		Post(captchaVerifyPath)
	if err != nil {
		return AvailabilityError{Step: "verify challenge answer", Err: err}
	}

	var errPayload serverErrors
	if json.Unmarshal(verify.Body(), &errPayload) == nil && len(errPayload.Errors) > 0 {
		return ErrChallengeUnresolvable
	}
	if verify.StatusCode() >= 400 {
		return ErrChallengeUnresolvable
	}
	return nil
}

package mintos

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/pquerna/otp/totp"
)

// Step timeouts are variables so tests can shrink them.
var (
	// markers for steps that may legitimately never appear
	optionalStepTimeout = time.Second * 5
	// the overview page must render once the session is live
	requiredStepTimeout = time.Second * 20
)

const (
	challengeSelector = "div#captcha"
	otpSelector       = "input[name=otp_code]"
	loggedInSelector  = "#header-wrapper"
	tokenSelector     = "meta[name=csrf-token]"
)

// login runs the full authentication flow: submit credentials, clear
// whichever challenges the server raises, confirm the session rendered and
// extract the signing token. The established session is persisted so later
// clients can skip this entirely.
func (c *Client) login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:login")
	defer span.End()

	slog.InfoContext(ctx, "logging in", "account", c.account)

	// prime the cookie jar before submitting anything
	_, err := c.getPage(ctx, loginPagePath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch the login page")
		return err
	}

	err = c.submitCredentials(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "credentials were not accepted")
		return err
	}

	// the server decides per session whether a challenge is shown, so its
	// absence within the window is not a failure
	challenge, err := c.waitForSelector(ctx, loginPagePath, challengeSelector, optionalStepTimeout)
	if err == nil {
		err = c.solveChallenge(ctx, challenge)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to solve the login challenge")
			return err
		}
	} else if err != errMarkerTimeout {
		return err
	}

	if c.totpSecret != "" {
		err = c.submitOneTimePassword(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "one-time password was not accepted")
			return err
		}
	}

	// the session only counts once the authenticated shell renders
	_, err = c.waitForSelector(ctx, overviewPagePath, loggedInSelector, requiredStepTimeout)
	if err == errMarkerTimeout {
		err = AvailabilityError{Step: "confirm login"}
		span.RecordError(err)
		span.SetStatus(codes.Error, "the overview page never rendered")
		return err
	}
	if err != nil {
		return err
	}

	err = c.fetchSigningToken(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract the signing token")
		return err
	}

	c.persistSession(ctx)
	slog.InfoContext(ctx, "login established", "account", c.account)
	return nil
}

// submitCredentials posts the account credentials. A server error payload at
// this step always means a rejection, not an outage.
func (c *Client) submitCredentials(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"login":    c.account,
		"password": c.password,
	})
	if err != nil {
		return err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body).
		Post(loginPath)
	if err != nil {
		return AvailabilityError{Step: "submit credentials", Err: err}
	}

	var errPayload serverErrors
	if json.Unmarshal(res.Body(), &errPayload) == nil && len(errPayload.Errors) > 0 {
		return ErrInvalidCredentials
	}
	if res.StatusCode() >= 400 {
		return ErrInvalidCredentials
	}
	return nil
}

// submitOneTimePassword derives the current TOTP code from the configured
// seed and posts it. The endpoint expects a form, not JSON.
func (c *Client) submitOneTimePassword(ctx context.Context) error {
	_, err := c.waitForSelector(ctx, loginPagePath, otpSelector, optionalStepTimeout)
	if err != nil && err != errMarkerTimeout {
		return err
	}

	code, err := totp.GenerateCode(c.totpSecret, time.Now())
	if err != nil {
		return ValidationError{Param: "totp_secret", Reason: "could not derive a code from the seed"}
	}

	form := url.Values{}
	form.Set("otp_code", code)

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/x-www-form-urlencoded").
		SetBody(form.Encode()).
		Post(tfaPath)
	if err != nil {
		return AvailabilityError{Step: "submit one-time password", Err: err}
	}

	var errPayload serverErrors
	if json.Unmarshal(res.Body(), &errPayload) == nil && len(errPayload.Errors) > 0 {
		return ErrInvalidCredentials
	}
	if res.StatusCode() >= 400 {
		return ErrInvalidCredentials
	}
	return nil
}

// fetchSigningToken pulls the anti-forgery token out of the authenticated
// webapp markup. Every API call carries it from here on.
func (c *Client) fetchSigningToken(ctx context.Context) error {
	doc, err := c.getPage(ctx, webAppPath)
	if err != nil {
		return err
	}

	token, ok := doc.Find(tokenSelector).Attr("content")
	if !ok || token == "" {
		return AvailabilityError{Step: "extract signing token"}
	}
	c.SigningToken = token
	return nil
}

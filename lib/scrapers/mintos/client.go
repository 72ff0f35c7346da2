package mintos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"lendfolio/lib/marketdata"
	"lendfolio/lib/restyutil"
	"lendfolio/lib/sessionstore"
	"lendfolio/lib/speech"
	"lendfolio/lib/telemetry"

	browser "github.com/EDDYCJY/fake-useragent"
	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/mintos")

// signingHeader is the anti-forgery header the marketplace requires on
// authenticated API calls.
const signingHeader = "anti-csrf-token"

const detailCacheSize = 512
const detailCacheTTL = time.Minute * 15

// Client is an authenticated session against the marketplace.
//
// A Client is NOT safe for concurrent use: the cookie jar, signing token and
// session record are shared mutable state with no internal lock, so callers
// must serialize access. The only internal concurrency is the pagination
// fan-out, which never mutates session state.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	// anti-forgery token extracted from the authenticated webapp markup
	SigningToken string

	Catalog *marketdata.Catalog

	account    string
	password   string
	totpSecret string

	jar        *recordingJar
	store      sessionstore.Store
	recognizer speech.Recognizer

	detailCache *expirable.LRU[string, Row]
}

type ClientOptions struct {
	// defaults to the public marketplace
	BaseUrl string
	Email    string
	Password string
	// base32 TOTP seed, empty when the account has no two-factor auth
	TotpSecret string
	// persisted sessions, keyed by account email
	Store sessionstore.Store
	// resolves audio challenges; optional, login fails on a challenge
	// when absent
	Recognizer speech.Recognizer
}

// NewClient builds a client and establishes a session: a persisted session
// that hasn't expired is reused without any network traffic, otherwise the
// full login flow runs and the freshly established session overwrites the
// stored one.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	ctx, span := tracer.Start(ctx, "NewClient")
	defer span.End()

	if opts.Email == "" {
		return nil, ValidationError{Param: "email", Reason: "must not be empty"}
	}
	if opts.Password == "" {
		return nil, ValidationError{Param: "password", Reason: "must not be empty"}
	}

	rawBase := opts.BaseUrl
	if rawBase == "" {
		rawBase = "https://www.mintos.com"
	}
	baseUrl, err := url.Parse(rawBase)
	if err != nil {
		return nil, err
	}

	jar, err := newRecordingJar()
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(rawBase)
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", browser.Chrome())
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/mintos/http")

	c := &Client{
		BaseUrl:     baseUrl,
		Http:        client,
		Catalog:     marketdata.NewCatalog(),
		account:     opts.Email,
		password:    opts.Password,
		totpSecret:  opts.TotpSecret,
		jar:         jar,
		store:       opts.Store,
		recognizer:  opts.Recognizer,
		detailCache: expirable.NewLRU[string, Row](detailCacheSize, nil, detailCacheTTL),
	}

	restored, err := c.restoreSession(ctx)
	if err != nil {
		return nil, err
	}
	if restored {
		slog.DebugContext(ctx, "reusing persisted session", "account", c.account)
		return c, nil
	}

	err = c.login(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// restoreSession loads the persisted session for this account and installs
// it if it is still valid. Invalid or absent records are discarded.
func (c *Client) restoreSession(ctx context.Context) (bool, error) {
	session, err := c.store.Get(ctx, c.account)
	if err == sessionstore.ErrNoSession {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !session.Valid(time.Now()) {
		err = c.store.Delete(ctx, c.account)
		if err != nil {
			slog.WarnContext(ctx, "failed to delete stale session", "err", err)
		}
		return false, nil
	}

	c.jar.SetCookies(c.BaseUrl, session.HttpCookies())
	c.SigningToken = session.SigningToken
	return true, nil
}

// persistSession writes the live cookie set and signing token back to the
// store. Servers rotate session identifiers, so this runs after every
// request; a store failure is logged but never fails the request itself.
func (c *Client) persistSession(ctx context.Context) {
	session := sessionstore.FromHttpCookies(c.jar.snapshot(), c.SigningToken)
	err := c.store.Put(ctx, c.account, session)
	if err != nil {
		slog.WarnContext(ctx, "failed to persist session", "account", c.account, "err", err)
	}
}

// SetDebugOutput dumps every marketplace exchange to the output. Attach it
// after construction so login traffic, credentials included, never reaches
// the dump.
func (c *Client) SetDebugOutput(output restyutil.InstrumentOutput) {
	restyutil.AttachOutput(c.Http, output)
}

type requestSpec struct {
	method   string
	path     string
	query    string
	jsonBody string
	formBody url.Values
	out      any
}

// serverErrors is the error payload shape shared by all JSON endpoints.
type serverErrors struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// request issues one signed API call and decodes its JSON response. A
// top-level error payload fails the call with the server's own message.
func (c *Client) request(ctx context.Context, spec requestSpec) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("request:%s %s", spec.method, spec.path))
	defer span.End()

	req := c.Http.R().
		SetContext(ctx).
		SetHeader(signingHeader, c.SigningToken)

	if spec.query != "" {
		req.SetQueryString(spec.query)
	}
	if spec.jsonBody != "" {
		req.SetHeader("content-type", "application/json")
		req.SetBody(spec.jsonBody)
	}
	if spec.formBody != nil {
		req.SetHeader("content-type", "application/x-www-form-urlencoded")
		req.SetBody(spec.formBody.Encode())
	}

	res, err := req.Execute(spec.method, spec.path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return AvailabilityError{Step: fmt.Sprintf("%s %s", spec.method, spec.path), Err: err}
	}

	c.persistSession(ctx)

	var errPayload serverErrors
	if json.Unmarshal(res.Body(), &errPayload) == nil && len(errPayload.Errors) > 0 {
		span.SetStatus(codes.Error, "server reported an error payload")
		return ServerError{Message: errPayload.Errors[0].Message}
	}
	if res.StatusCode() >= 400 {
		span.SetStatus(codes.Error, "unexpected status")
		return ServerError{Message: fmt.Sprintf("status %d", res.StatusCode())}
	}

	if spec.out == nil {
		return nil
	}
	err = json.Unmarshal(res.Body(), spec.out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse json response")
		return err
	}
	return nil
}

// getPage fetches a webapp page (not the JSON API) and parses its markup.
func (c *Client) getPage(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, AvailabilityError{Step: "GET " + path, Err: err}
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

var errMarkerTimeout = fmt.Errorf("marker did not appear within the timeout")

var markerPollInterval = time.Second

// waitForSelector polls a page until a selector matches or the timeout
// passes. Callers decide whether a timeout is fatal: optional login steps
// tolerate it, required ones do not.
func (c *Client) waitForSelector(ctx context.Context, path, selector string, timeout time.Duration) (*goquery.Selection, error) {
	deadline := time.Now().Add(timeout)
	for {
		doc, err := c.getPage(ctx, path)
		if err == nil {
			sel := doc.Find(selector)
			if sel.Length() > 0 {
				return sel, nil
			}
		}

		if time.Now().After(deadline) {
			return nil, errMarkerTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(markerPollInterval):
		}
	}
}

// listPage fetches one page of a listing endpoint and pulls out its items
// and pagination metadata.
func (c *Client) listPage(ctx context.Context, spec requestSpec) (pageData, error) {
	var parsed struct {
		Items      []map[string]any `json:"items"`
		Pagination struct {
			Page    int   `json:"page"`
			Total   int   `json:"total"`
			HasNext *bool `json:"hasNext"`
		} `json:"pagination"`
	}
	spec.out = &parsed
	err := c.request(ctx, spec)
	if err != nil {
		return pageData{}, err
	}
	return pageData{
		Items:   parsed.Items,
		Page:    parsed.Pagination.Page,
		Total:   parsed.Pagination.Total,
		HasNext: parsed.Pagination.HasNext,
	}, nil
}

// Logout tears down the server-side session and removes the persisted
// session record.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Logout")
	defer span.End()

	err := c.request(ctx, requestSpec{method: "GET", path: logoutPath})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to log out")
		return err
	}

	c.SigningToken = ""
	err = c.store.Delete(ctx, c.account)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

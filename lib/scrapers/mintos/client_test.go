package mintos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"lendfolio/lib/sessionstore"
	"lendfolio/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) sessionstore.Store {
	store, err := sessionstore.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	return store
}

func liveSession(token string) sessionstore.Session {
	return sessionstore.Session{
		Cookies: []sessionstore.Cookie{{
			Name:    "PHPSESSID",
			Value:   "abc123",
			Domain:  "127.0.0.1",
			Path:    "/",
			Expires: time.Now().Add(time.Hour).Unix(),
		}},
		SigningToken: token,
	}
}

// seededClient builds a client on top of a stub server with a valid persisted
// session already in place, so construction performs no network calls.
func seededClient(t *testing.T, handler http.Handler) (*Client, sessionstore.Store) {
	t.Cleanup(telemetry.SetupForTesting(t, "scrapers/mintos"))

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := testStore(t)
	err := store.Put(context.Background(), "user@example.com", liveSession("tok"))
	require.NoError(t, err)

	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl:  server.URL,
		Email:    "user@example.com",
		Password: "hunter2",
		Store:    store,
	})
	require.NoError(t, err)
	return client, store
}

func shortLoginTimeouts(t *testing.T) {
	oldPoll := markerPollInterval
	oldOptional := optionalStepTimeout
	oldRequired := requiredStepTimeout
	markerPollInterval = time.Millisecond * 10
	optionalStepTimeout = time.Millisecond * 50
	requiredStepTimeout = time.Millisecond * 300
	t.Cleanup(func() {
		markerPollInterval = oldPoll
		optionalStepTimeout = oldOptional
		requiredStepTimeout = oldRequired
	})
}

// registers reference data stubs so catalog refreshes succeed quietly
func stubReferenceData(mux *http.ServeMux) {
	mux.HandleFunc(currenciesPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"abbreviation": "TST", "isoCode": 999}]}`))
	})
	mux.HandleFunc(lendingCompaniesPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	})
}

func TestNewClientReusesPersistedSession(t *testing.T) {
	var calls atomic.Int64
	client, _ := seededClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	// a valid stored session means no login traffic at all
	require.Equal(t, int64(0), calls.Load())
	require.Equal(t, "tok", client.SigningToken)
}

func TestNewClientDiscardsExpiredSession(t *testing.T) {
	shortLoginTimeouts(t)

	mux := http.NewServeMux()
	registerLoginFlow(mux, "fresh-token")
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := testStore(t)
	stale := liveSession("stale-token")
	stale.Cookies[0].Expires = time.Now().Add(-time.Hour).Unix()
	err := store.Put(context.Background(), "user@example.com", stale)
	require.NoError(t, err)

	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl:  server.URL,
		Email:    "user@example.com",
		Password: "hunter2",
		Store:    store,
	})
	require.NoError(t, err)
	require.Equal(t, "fresh-token", client.SigningToken)

	// the fresh session replaced the stale record
	session, err := store.Get(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "fresh-token", session.SigningToken)
}

func registerLoginFlow(mux *http.ServeMux, token string) {
	mux.HandleFunc(loginPagePath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><form id="login"></form></body></html>`))
	})
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:    "PHPSESSID",
			Value:   "fresh",
			Path:    "/",
			Expires: time.Now().Add(time.Hour),
		})
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc(overviewPagePath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div id="header-wrapper"></div></body></html>`))
	})
	mux.HandleFunc(webAppPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta name="csrf-token" content="` + token + `"></head></html>`))
	})
}

func TestNewClientFullLogin(t *testing.T) {
	shortLoginTimeouts(t)

	mux := http.NewServeMux()
	registerLoginFlow(mux, "tok-123")
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := testStore(t)
	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl:  server.URL,
		Email:    "user@example.com",
		Password: "hunter2",
		Store:    store,
	})
	require.NoError(t, err)
	require.Equal(t, "tok-123", client.SigningToken)

	session, err := store.Get(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "tok-123", session.SigningToken)
	require.True(t, session.Valid(time.Now()))
}

func TestNewClientRejectedCredentials(t *testing.T) {
	shortLoginTimeouts(t)

	mux := http.NewServeMux()
	mux.HandleFunc(loginPagePath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html></html>`))
	})
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "Invalid email or password"}]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, err := NewClient(context.Background(), ClientOptions{
		BaseUrl:  server.URL,
		Email:    "user@example.com",
		Password: "wrong",
		Store:    testStore(t),
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), ClientOptions{Password: "x", Store: testStore(t)})
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "email", validationErr.Param)
}

func TestGetPortfolioData(t *testing.T) {
	mux := http.NewServeMux()
	stubReferenceData(mux)

	var gotQuery string
	var gotToken string
	mux.HandleFunc(portfolioPath, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotToken = r.Header.Get(signingHeader)
		w.Write([]byte(`{"availableFunds": "100.50", "pendingPayments": null}`))
	})

	client, _ := seededClient(t, mux)
	data, err := client.GetPortfolioData(context.Background(), "EUR")
	require.NoError(t, err)

	require.Equal(t, "currencyIsoCode=978", gotQuery)
	require.Equal(t, "tok", gotToken)
	require.Equal(t, 100.50, data["available_funds"])
	require.Equal(t, NotAvailable, data["pending_payments"])
}

func TestGetNetAnnualReturnKeysByCurrencyName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(narPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"netAnnualReturns": {"978": "12.37", "840": 8.1}}`))
	})

	client, _ := seededClient(t, mux)
	returns, err := client.GetNetAnnualReturn(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12.37, returns["EUR"])
	require.Equal(t, 8.1, returns["USD"])
}

func TestServerErrorPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(narPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "maintenance in progress"}]}`))
	})

	client, _ := seededClient(t, mux)
	_, err := client.GetNetAnnualReturn(context.Background())

	var serverErr ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, "maintenance in progress", serverErr.Message)
}

func TestGetInvestmentsValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int64
	client, _ := seededClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := client.GetInvestments(context.Background(), InvestmentsQuery{Currency: "DOGE"})
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, int64(0), calls.Load())
}

func TestGetInvestments(t *testing.T) {
	mux := http.NewServeMux()
	stubReferenceData(mux)
	var gotMethod string
	mux.HandleFunc(currentInvestmentsPath, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{
			"items": [{
				"isin": "LV0000800001",
				"interestRate": "11.5%",
				"amount": {"amount": "25.75", "currency": "EUR"}
			}],
			"pagination": {"page": 1, "total": 1}
		}`))
	})

	client, _ := seededClient(t, mux)
	table, err := client.GetInvestments(context.Background(), InvestmentsQuery{
		Currency: "EUR",
		Current:  true,
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, 1, table.Len())

	row, ok := table.Lookup("LV0000800001")
	require.True(t, ok)
	require.Equal(t, 11.5, row["interestRate"])
	require.Equal(t, 25.75, row["amount"])
	require.Equal(t, "EUR", row["currency"])
}

func TestGetNoteDetailCachesLookups(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/webapp/api/marketplace-api/v1/user/note-series/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"isin": "LV0000800001", "interestRate": "10"}`))
	})

	client, _ := seededClient(t, mux)

	first, err := client.GetNoteDetail(context.Background(), "LV0000800001")
	require.NoError(t, err)
	second, err := client.GetNoteDetail(context.Background(), "LV0000800001")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int64(1), calls.Load())
	require.Equal(t, float64(10), first["interestRate"])
}

func TestGetNoteDetailNotFound(t *testing.T) {
	// no handler registered: the stub answers 404
	client, _ := seededClient(t, http.NewServeMux())

	_, err := client.GetNoteDetail(context.Background(), "XX0000000000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLogoutRemovesPersistedSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(logoutPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	client, store := seededClient(t, mux)
	err := client.Logout(context.Background())
	require.NoError(t, err)
	require.Empty(t, client.SigningToken)

	_, err = store.Get(context.Background(), "user@example.com")
	require.ErrorIs(t, err, sessionstore.ErrNoSession)
}

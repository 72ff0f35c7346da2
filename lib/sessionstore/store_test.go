package sessionstore

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func testStore(t *testing.T) Store {
	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlite.Close() })
	_, err = sqlite.Exec(Schema)
	if err != nil {
		t.Fatal(err)
	}
	return New(sqlite)
}

func TestStoreRoundtrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrNoSession)

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	session := Session{
		Cookies: []Cookie{
			{Name: "PHPSESSID", Value: "abc", Domain: "www.mintos.com", Path: "/", Expires: expires.Unix()},
			{Name: "locale", Value: "en", Domain: "www.mintos.com", Path: "/"},
		},
		SigningToken: "tok-123",
		ExpiresAt:    expires,
	}
	err = store.Put(ctx, "alice@example.com", session)
	require.NoError(t, err)

	got, err := store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, session.Cookies, got.Cookies)
	require.Equal(t, "tok-123", got.SigningToken)
	require.Equal(t, expires.Unix(), got.ExpiresAt.Unix())

	// overwrite rotates the record in place
	session.SigningToken = "tok-456"
	err = store.Put(ctx, "alice@example.com", session)
	require.NoError(t, err)
	got, err = store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "tok-456", got.SigningToken)

	err = store.Delete(ctx, "alice@example.com")
	require.NoError(t, err)
	_, err = store.Get(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionValidity(t *testing.T) {
	now := time.Now()

	valid := Session{
		SigningToken: "tok",
		Cookies: []Cookie{
			{Name: "PHPSESSID", Expires: now.Add(time.Hour).Unix()},
		},
	}
	require.True(t, valid.Valid(now))

	expired := Session{
		SigningToken: "tok",
		Cookies: []Cookie{
			{Name: "MW_SESSION_ID", Expires: now.Add(-time.Minute).Unix()},
		},
	}
	require.False(t, expired.Valid(now))

	// a session without any distinguished cookie can't be resumed
	anonymous := Session{
		SigningToken: "tok",
		Cookies:      []Cookie{{Name: "locale", Value: "en"}},
	}
	require.False(t, anonymous.Valid(now))

	// a session without a signing token can't sign requests
	unsigned := Session{
		Cookies: []Cookie{{Name: "PHPSESSID", Expires: now.Add(time.Hour).Unix()}},
	}
	require.False(t, unsigned.Valid(now))
}

func TestFromHttpCookies(t *testing.T) {
	expires := time.Now().Add(30 * time.Minute)
	session := FromHttpCookies([]*http.Cookie{
		{Name: "PHPSESSID", Value: "abc", Domain: "www.mintos.com", Path: "/", Expires: expires},
		{Name: "locale", Value: "en"},
	}, "tok")

	require.Len(t, session.Cookies, 2)
	require.Equal(t, expires.Unix(), session.ExpiresAt.Unix())
	require.True(t, session.Valid(time.Now()))

	back := session.HttpCookies()
	require.Equal(t, "PHPSESSID", back[0].Name)
	require.Equal(t, expires.Unix(), back[0].Expires.Unix())
	require.True(t, back[1].Expires.IsZero())
}

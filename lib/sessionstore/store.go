package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lendfolio/lib/marketdata"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

var ErrNoSession = fmt.Errorf("no persisted session for account")

// Cookie is the persisted form of one browser cookie.
type Cookie struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Domain  string `json:"domain"`
	Path    string `json:"path"`
	Expires int64  `json:"expires"`
}

// Session is the state required to resume an authenticated marketplace
// session without logging in again.
type Session struct {
	Cookies      []Cookie
	SigningToken string
	ExpiresAt    time.Time
}

// Valid reports whether the session can still be used. Expiry derives from
// the marketplace's distinguished session cookies; a session without any of
// them is unusable.
func (s Session) Valid(now time.Time) bool {
	if s.SigningToken == "" {
		return false
	}
	seen := false
	for _, c := range s.Cookies {
		if !marketdata.SessionCookies[c.Name] {
			continue
		}
		seen = true
		if c.Expires > 0 && now.Unix() > c.Expires {
			return false
		}
	}
	return seen
}

// HttpCookies converts persisted cookies back into cookie-jar form.
func (s Session) HttpCookies() []*http.Cookie {
	out := make([]*http.Cookie, len(s.Cookies))
	for i, c := range s.Cookies {
		cookie := &http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		}
		if c.Expires > 0 {
			cookie.Expires = time.Unix(c.Expires, 0)
		}
		out[i] = cookie
	}
	return out
}

// FromHttpCookies builds a Session from live cookie-jar contents.
func FromHttpCookies(cookies []*http.Cookie, signingToken string) Session {
	s := Session{SigningToken: signingToken}
	for _, c := range cookies {
		persisted := Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		}
		if !c.Expires.IsZero() {
			persisted.Expires = c.Expires.Unix()
		}
		s.Cookies = append(s.Cookies, persisted)

		if marketdata.SessionCookies[c.Name] && !c.Expires.IsZero() {
			if s.ExpiresAt.IsZero() || c.Expires.Before(s.ExpiresAt) {
				s.ExpiresAt = c.Expires
			}
		}
	}
	return s
}

// Store keeps one session record per account in a local sqlite database.
// Writes happen inside a transaction so a crashed process never leaves a
// half-written record behind.
type Store struct {
	db *sql.DB
}

func New(database *sql.DB) Store {
	return Store{db: database}
}

// Open opens (or creates) a session database at the given path.
func Open(path string) (Store, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	_, err = database.Exec(Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: database}, nil
}

func (s Store) Get(ctx context.Context, account string) (Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT cookies, signing_token, expires_at FROM sessions WHERE account = ?`,
		account,
	)

	var cookiesJson string
	var session Session
	var expiresAt int64
	err := row.Scan(&cookiesJson, &session.SigningToken, &expiresAt)
	if err == sql.ErrNoRows {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}

	err = json.Unmarshal([]byte(cookiesJson), &session.Cookies)
	if err != nil {
		return Session{}, err
	}
	session.ExpiresAt = time.Unix(expiresAt, 0)
	return session, nil
}

func (s Store) Put(ctx context.Context, account string, session Session) error {
	cookiesJson, err := json.Marshal(session.Cookies)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO sessions (account, cookies, signing_token, expires_at)
		 VALUES (?, ?, ?, ?)`,
		account, string(cookiesJson), session.SigningToken, session.ExpiresAt.Unix(),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s Store) Delete(ctx context.Context, account string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE account = ?`, account)
	return err
}

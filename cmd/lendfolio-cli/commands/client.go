package commands

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"lendfolio/lib/configutil"
	"lendfolio/lib/restyutil"
	"lendfolio/lib/scrapers/mintos"
	"lendfolio/lib/sessionstore"
	"lendfolio/lib/speech"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TotpSecret string `json:"totp_secret"`
	// marketplace base URL override, mainly for staging
	BaseUrl string `json:"base_url"`
	// where the session database lives, defaults to sessions.db
	SessionDb string `json:"session_db"`
	// speech-to-text endpoint for audio login challenges
	RecognizerEndpoint string `json:"recognizer_endpoint"`
	RecognizerToken    string `json:"recognizer_token"`
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

func createClient(cmd *cobra.Command) *mintos.Client {
	cfg, err := configutil.Read[Config]("lendfolio.json5")
	if err != nil {
		fatal("failed to read lendfolio.json5", err)
	}
	if cfg.SessionDb == "" {
		cfg.SessionDb = "sessions.db"
	}

	store, err := sessionstore.Open(cfg.SessionDb)
	if err != nil {
		fatal("failed to open the session database", err)
	}

	var recognizer speech.Recognizer
	if cfg.RecognizerEndpoint != "" {
		recognizer = speech.NewHttpRecognizer(speech.HttpRecognizerOptions{
			Endpoint: cfg.RecognizerEndpoint,
			Token:    cfg.RecognizerToken,
		})
	}

	client, err := mintos.NewClient(cmd.Context(), mintos.ClientOptions{
		BaseUrl:    cfg.BaseUrl,
		Email:      cfg.Email,
		Password:   cfg.Password,
		TotpSecret: cfg.TotpSecret,
		Store:      store,
		Recognizer: recognizer,
	})
	if err != nil {
		fatal("failed to establish a marketplace session", err)
	}

	if *debugHttpDir != "" {
		client.SetDebugOutput(restyutil.NewFilesystemOutput(*debugHttpDir))
	}
	return client
}

func formatValue(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format("2006-01-02")
	case float64:
		return fmt.Sprintf("%g", x)
	case nil:
		return mintos.NotAvailable
	default:
		return fmt.Sprint(v)
	}
}

// renderTable prints a normalized record set, key column first.
func renderTable(records mintos.Table) {
	columns := records.Columns()

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}

	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.AppendHeader(header)
	for _, row := range records.Rows {
		cells := make(table.Row, len(columns))
		for i, col := range columns {
			cells[i] = formatValue(row[col])
		}
		w.AppendRow(cells)
	}
	w.Render()
}

// renderMap prints a summary map as sorted field/value pairs.
func renderMap(data map[string]any) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.AppendHeader(table.Row{"field", "value"})
	for _, k := range keys {
		if nested, ok := data[k].(map[string]any); ok {
			for nk, nv := range nested {
				w.AppendRow(table.Row{k + "." + nk, formatValue(nv)})
			}
			continue
		}
		w.AppendRow(table.Row{k, formatValue(data[k])})
	}
	w.Render()
}

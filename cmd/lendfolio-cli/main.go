package main

import (
	"log/slog"
	"os"

	"lendfolio/cmd/lendfolio-cli/commands"
	"lendfolio/lib/osutil"
	"lendfolio/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	// running without a telemetry.json5 in scope is fine, spans go nowhere
	t, err := telemetry.SetupFromEnv(ctx, "lendfolio-cli")
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("telemetry setup failed", "err", err)
	}
	defer t.Shutdown(ctx)

	commands.ExecuteContext(ctx)
}

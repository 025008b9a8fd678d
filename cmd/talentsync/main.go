package main

import (
	"context"

	"talentsync/cmd/talentsync/commands"
	"talentsync/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// telemetry is optional for a desktop tool, no telemetry.json5 is fine
	t, err := telemetry.SetupFromEnv(ctx, "talentsync")
	if err == nil {
		defer t.Shutdown(context.Background())
	}

	commands.ExecuteContext(ctx)
}

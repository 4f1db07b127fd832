package app

// Command is the application launch mode.
type Command string

const (
	// CommandServe starts the API server.
	CommandServe Command = "serve"
	// CommandWorker starts the sync worker.
	CommandWorker Command = "worker"
	// CommandMigrate applies database migrations.
	CommandMigrate Command = "migrate"
	// CommandHealthcheck probes the running server's /health endpoint.
	// Meant for Docker healthchecks in distroless images.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand resolves the subcommand from command line arguments.
// Empty or unrecognized arguments fall back to CommandServe.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "worker":
		return CommandWorker
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}

package commands

import (
	"strings"

	"github.com/goliatone/go-widget-classes/internal/logging"
	"github.com/goliatone/go-widget-classes/pkg/interfaces"
)

// CommandLogger returns the commands module logger tagged with the
// command module name.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

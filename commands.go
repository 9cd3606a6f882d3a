package widgetclasses

import "github.com/goliatone/go-widget-classes/internal/di"

type (
	CommandRegistry     = di.CommandRegistry
	CommandDispatcher   = di.CommandDispatcher
	CommandSubscription = di.CommandSubscription
	RegistrationOptions = di.RegistrationOptions
	RegistrationResult  = di.RegistrationResult
)

// RegisterCommands exposes the module's command handlers to a host registry
// or dispatcher.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	if m == nil {
		return di.RegisterCommands(nil, opts)
	}
	return di.RegisterCommands(m.container, opts)
}

package di

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-widget-classes/internal/commands"
)

// ErrHandlerNotSubscribable is returned when a handler cannot subscribe itself
// to the go-command dispatcher.
var ErrHandlerNotSubscribable = errors.New("widgetclasses: handler cannot subscribe to dispatcher")

// CommandRegistry records command handlers so hosts can expose them via CLI.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// DispatcherSubscriber subscribes handlers to the process wide go-command
// dispatcher through their own Subscribe method.
type DispatcherSubscriber struct{}

var _ CommandDispatcher = DispatcherSubscriber{}

func (DispatcherSubscriber) RegisterCommand(handler any) (CommandSubscription, error) {
	subscriber, ok := handler.(interface{ Subscribe() commands.Subscription })
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrHandlerNotSubscribable, handler)
	}
	return subscriber.Subscribe(), nil
}

// RegistrationOptions selects the integrations handlers are registered with.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterCommands hands the container's command handlers to the registry
// and dispatcher in opts. Every integration is attempted; failures are joined.
func RegisterCommands(container *Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}
	if container == nil {
		return result, nil
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	if handler := container.UpdateClassesHandler(); handler != nil {
		register(handler)
	}

	return result, errs
}

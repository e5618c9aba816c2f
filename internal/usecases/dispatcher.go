package usecases

import (
	"context"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
	"project_ria/internal/interfaces"
	"project_ria/internal/logger"
)

// Dispatcher walks an ordered provider list once per request, returning the
// first successful completion. No retries, no backoff: a failed provider is
// logged and the next one is tried.
type Dispatcher struct {
	providers []interfaces.CompletionProvider
	log       *logger.Logger
}

func NewDispatcher(providers []interfaces.CompletionProvider, log *logger.Logger) *Dispatcher {
	return &Dispatcher{providers: providers, log: log}
}

// Dispatch attempts providers strictly in priority order. When every
// provider fails it returns a terminal AllProvidersFailed error; the caller
// has no tenant-facing fallback for that case.
func (d *Dispatcher) Dispatch(ctx context.Context, messages []entities.ChatMessage, opts interfaces.CompletionOptions) (string, error) {
	var lastErr error
	for _, provider := range d.providers {
		reply, err := provider.Complete(ctx, messages, opts)
		if err != nil {
			d.log.ProviderFailure(provider.Name(), err)
			lastErr = err
			continue
		}
		return reply, nil
	}

	return "", apperr.Wrap(apperr.KindAllProvidersFailed, "dispatch", lastErr)
}

package handler

import (
	"RegistrationBot/metrics"
	"RegistrationBot/model"
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// Intent display names configured in the agent.
const (
	IntentGreeting     = "hi"
	IntentRegistration = "forms"
	IntentFallback     = "Default Fallback Intent"
)

type IntentHandler func(ctx context.Context, agent *Agent) error

// Dispatcher routes requests through a table fixed at construction.
type Dispatcher struct {
	table map[string]IntentHandler
}

func NewDispatcher(table map[string]IntentHandler) (*Dispatcher, error) {
	copied := make(map[string]IntentHandler, len(table))
	for intent, h := range table {
		if intent == "" {
			return nil, fmt.Errorf("empty intent name in dispatch table")
		}
		if h == nil {
			return nil, fmt.Errorf("nil handler for intent %q", intent)
		}
		copied[intent] = h
	}
	return &Dispatcher{table: copied}, nil
}

func (d *Dispatcher) Intents() []string {
	intents := make([]string, 0, len(d.table))
	for intent := range d.table {
		intents = append(intents, intent)
	}
	sort.Strings(intents)
	return intents
}

// Dispatch runs the handler for req.Intent. Handler errors and panics come
// back wrapped in model.ErrDispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (agent *Agent, err error) {
	agent = NewAgent(req)

	h, ok := d.table[req.Intent]
	if !ok {
		log.Debug().Str("intent", req.Intent).Msg("no handler registered")
		metrics.IntentsTotal.WithLabelValues("unknown", "error").Inc()
		return agent, fmt.Errorf("%w: %w %q", model.ErrDispatch, model.ErrUnknownIntent, req.Intent)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: intent %q panicked: %v", model.ErrDispatch, req.Intent, r)
		}
		if err != nil {
			log.Error().Err(err).Str("intent", req.Intent).Msg("error in handler")
		}
		metrics.IntentsTotal.WithLabelValues(req.Intent, metrics.Outcome(err)).Inc()
	}()

	if herr := h(ctx, agent); herr != nil {
		return agent, fmt.Errorf("%w: intent %q: %w", model.ErrDispatch, req.Intent, herr)
	}
	return agent, nil
}

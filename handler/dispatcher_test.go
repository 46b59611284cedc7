package handler

import (
	"RegistrationBot/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatcher_RejectsBadEntries(t *testing.T) {
	_, err := NewDispatcher(map[string]IntentHandler{"": Greet})
	assert.Error(t, err)

	_, err = NewDispatcher(map[string]IntentHandler{"hi": nil})
	assert.Error(t, err)
}

func TestNewDispatcher_CopiesTable(t *testing.T) {
	table := map[string]IntentHandler{IntentGreeting: Greet}
	d, err := NewDispatcher(table)
	require.NoError(t, err)

	table["late"] = Greet
	assert.Equal(t, []string{IntentGreeting}, d.Intents())
}

func TestDispatch_Greeting(t *testing.T) {
	d, err := NewDispatcher(map[string]IntentHandler{IntentGreeting: Greet})
	require.NoError(t, err)

	agent, err := d.Dispatch(context.Background(), Request{Intent: IntentGreeting})
	require.NoError(t, err)
	assert.Equal(t, []string{GreetingReply}, agent.Replies())
}

func TestDispatch_UnknownIntent(t *testing.T) {
	d, err := NewDispatcher(map[string]IntentHandler{IntentGreeting: Greet})
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), Request{Intent: "weather"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDispatch))
	assert.True(t, errors.Is(err, model.ErrUnknownIntent))
}

func TestDispatch_HandlerError(t *testing.T) {
	d, err := NewDispatcher(map[string]IntentHandler{
		"broken": func(ctx context.Context, agent *Agent) error { return errBoom },
	})
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), Request{Intent: "broken"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDispatch))
	assert.True(t, errors.Is(err, errBoom))
}

func TestDispatch_RecoversPanic(t *testing.T) {
	d, err := NewDispatcher(map[string]IntentHandler{
		"panics": func(ctx context.Context, agent *Agent) error { panic("nil map") },
	})
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), Request{Intent: "panics"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDispatch))
	assert.Contains(t, err.Error(), "nil map")
}

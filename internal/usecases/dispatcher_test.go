package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
	"project_ria/internal/interfaces"
	"project_ria/internal/logger"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Complete(_ context.Context, _ []entities.ChatMessage, _ interfaces.CompletionOptions) (string, error) {
	p.calls++
	return p.reply, p.err
}

func testMessages() []entities.ChatMessage {
	return []entities.ChatMessage{
		{Role: entities.RoleSystem, Content: "You are Ria."},
		{Role: entities.RoleUser, Content: "Hi"},
	}
}

func TestDispatchFirstProviderWins(t *testing.T) {
	primary := &fakeProvider{name: "groq", reply: "Hello!"}
	secondary := &fakeProvider{name: "gemini", reply: "unused"}
	d := NewDispatcher([]interfaces.CompletionProvider{primary, secondary}, logger.New("test"))

	reply, err := d.Dispatch(context.Background(), testMessages(), interfaces.CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestDispatchFailsOver(t *testing.T) {
	primary := &fakeProvider{name: "groq", err: errors.New("rate limited")}
	secondary := &fakeProvider{name: "gemini", reply: "Hello from backup"}
	tertiary := &fakeProvider{name: "spare", reply: "unused"}
	d := NewDispatcher([]interfaces.CompletionProvider{primary, secondary, tertiary}, logger.New("test"))

	reply, err := d.Dispatch(context.Background(), testMessages(), interfaces.CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Hello from backup", reply)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 0, tertiary.calls)
}

func TestDispatchAllFail(t *testing.T) {
	primary := &fakeProvider{name: "groq", err: errors.New("rate limited")}
	secondary := &fakeProvider{name: "gemini", err: errors.New("quota exhausted")}
	d := NewDispatcher([]interfaces.CompletionProvider{primary, secondary}, logger.New("test"))

	reply, err := d.Dispatch(context.Background(), testMessages(), interfaces.CompletionOptions{})
	require.Error(t, err)
	assert.Empty(t, reply)
	assert.Equal(t, apperr.KindAllProvidersFailed, apperr.KindOf(err))
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestDispatchNoProviders(t *testing.T) {
	d := NewDispatcher(nil, logger.New("test"))

	_, err := d.Dispatch(context.Background(), testMessages(), interfaces.CompletionOptions{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAllProvidersFailed, apperr.KindOf(err))
}

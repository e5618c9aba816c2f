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

type fakeTenantStore struct {
	profile *entities.TenantProfile
	err     error
}

func (s *fakeTenantStore) Resolve(_ context.Context, _ string) (*entities.TenantProfile, error) {
	return s.profile, s.err
}

type fakeConversationStore struct {
	history   []entities.Turn
	appended  []entities.Turn
	readErr   error
	writeErr  error
	appendCnt int
}

func (s *fakeConversationStore) RecentTurns(_ context.Context, _ string, _ int) ([]entities.Turn, error) {
	return s.history, s.readErr
}

func (s *fakeConversationStore) AppendExchange(_ context.Context, userTurn, assistantTurn entities.Turn) error {
	s.appendCnt++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.appended = append(s.appended, userTurn, assistantTurn)
	return nil
}

type fakeUsageStore struct {
	count      int
	increments int
	readErr    error
}

func (s *fakeUsageStore) TodayCount(_ context.Context, _ string) (int, error) {
	return s.count, s.readErr
}

func (s *fakeUsageStore) Increment(_ context.Context, _ string) error {
	s.increments++
	return nil
}

type fakeLeadStore struct {
	leads  []*entities.Lead
	orders []*entities.Order
	err    error
}

func (s *fakeLeadStore) InsertLead(_ context.Context, lead *entities.Lead) error {
	if s.err != nil {
		return s.err
	}
	s.leads = append(s.leads, lead)
	return nil
}

func (s *fakeLeadStore) InsertOrder(_ context.Context, order *entities.Order) error {
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, order)
	return nil
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
	opts  interfaces.CompletionOptions
}

func (c *fakeCompleter) Dispatch(_ context.Context, _ []entities.ChatMessage, opts interfaces.CompletionOptions) (string, error) {
	c.calls++
	c.opts = opts
	return c.reply, c.err
}

type fakeSink struct {
	name  string
	texts []string
	err   error
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) SendAlert(_ context.Context, _ *entities.Tenant, text string) error {
	if s.err != nil {
		return s.err
	}
	s.texts = append(s.texts, text)
	return nil
}

type pipelineFixture struct {
	pipeline      *Pipeline
	tenants       *fakeTenantStore
	conversations *fakeConversationStore
	usage         *fakeUsageStore
	leads         *fakeLeadStore
	completer     *fakeCompleter
	sink          *fakeSink
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		tenants:       &fakeTenantStore{profile: testProfile()},
		conversations: &fakeConversationStore{},
		usage:         &fakeUsageStore{},
		leads:         &fakeLeadStore{},
		completer:     &fakeCompleter{reply: "Hello! How can I help?"},
		sink:          &fakeSink{name: "telegram"},
	}
	f.pipeline = &Pipeline{
		Tenants:       f.tenants,
		Conversations: f.conversations,
		Usage:         f.usage,
		Leads:         f.leads,
		Dispatcher:    f.completer,
		Alerts:        []interfaces.AlertSink{f.sink},
		Log:           logger.New("test"),
	}
	return f
}

func chatRequest() ChatRequest {
	return ChatRequest{
		TenantID:  "lanka-gadgets",
		SessionID: "sess-1",
		Message:   "Do you have tumblers?",
	}
}

func TestProcessHappyPath(t *testing.T) {
	f := newPipelineFixture()
	f.usage.count = 29 // one under the Lite ceiling

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", reply)

	assert.Equal(t, 1, f.completer.calls)
	assert.Equal(t, 1, f.usage.increments)
	require.Len(t, f.conversations.appended, 2)
	assert.Equal(t, entities.RoleUser, f.conversations.appended[0].Role)
	assert.Equal(t, "Do you have tumblers?", f.conversations.appended[0].Content)
	assert.Equal(t, entities.RoleAssistant, f.conversations.appended[1].Role)
	assert.Equal(t, "Hello! How can I help?", f.conversations.appended[1].Content)
	assert.Empty(t, f.leads.leads)
	assert.Empty(t, f.sink.texts)
}

func TestProcessQuotaExhausted(t *testing.T) {
	f := newPipelineFixture()
	f.usage.count = 30 // at the Lite ceiling

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, fallbackLimit, reply)

	assert.Equal(t, 0, f.completer.calls)
	assert.Equal(t, 0, f.usage.increments)
	assert.Zero(t, f.conversations.appendCnt)
}

func TestProcessSuspendedTenant(t *testing.T) {
	f := newPipelineFixture()
	f.tenants.profile.Tenant.Status = entities.StatusSuspended

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, fallbackInactive, reply)
	assert.Equal(t, 0, f.completer.calls)
	assert.Zero(t, f.conversations.appendCnt)
}

func TestProcessUnknownTenant(t *testing.T) {
	f := newPipelineFixture()
	f.tenants.profile = nil
	f.tenants.err = apperr.New(apperr.KindTenantNotFound, "no such client")

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, fallbackInactive, reply)
	assert.Equal(t, 0, f.completer.calls)
}

func TestProcessResolveFailure(t *testing.T) {
	f := newPipelineFixture()
	f.tenants.profile = nil
	f.tenants.err = apperr.Wrap(apperr.KindPersistence, "tenant.resolve", errors.New("connection refused"))

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, fallbackUnavailable, reply)
	assert.Equal(t, 0, f.completer.calls)
}

func TestProcessAllProvidersFailed(t *testing.T) {
	f := newPipelineFixture()
	f.completer.err = apperr.Wrap(apperr.KindAllProvidersFailed, "dispatch", errors.New("rate limited"))
	f.completer.reply = ""

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Empty(t, reply)
	assert.Equal(t, apperr.KindAllProvidersFailed, apperr.KindOf(err))

	// A failed dispatch must not consume quota or write turns.
	assert.Equal(t, 0, f.usage.increments)
	assert.Zero(t, f.conversations.appendCnt)
}

func TestProcessHistoryReadFailureDegrades(t *testing.T) {
	f := newPipelineFixture()
	f.conversations.readErr = errors.New("timeout")

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", reply)
	assert.Equal(t, 1, f.completer.calls)
}

func TestProcessTurnWriteFailureStillReplies(t *testing.T) {
	f := newPipelineFixture()
	f.conversations.writeErr = errors.New("disk full")

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", reply)
	assert.Equal(t, 1, f.usage.increments)
}

func TestProcessLeadRoundTrip(t *testing.T) {
	f := newPipelineFixture()
	f.completer.reply = "Great, noted! [LEAD_DATA: Nimal Perera | 0771234567 | Blue Tumbler]"

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "Great, noted!", reply)

	require.Len(t, f.leads.leads, 1)
	lead := f.leads.leads[0]
	assert.Equal(t, "Nimal Perera", lead.Name)
	assert.Equal(t, "0771234567", lead.Phone)
	assert.Equal(t, "Blue Tumbler", lead.Interest)
	assert.Equal(t, f.tenants.profile.Tenant.ID, lead.TenantID)

	require.Len(t, f.sink.texts, 1)
	assert.Contains(t, f.sink.texts[0], "New Lead!")
	assert.Contains(t, f.sink.texts[0], "Nimal Perera")

	// The stored assistant turn is the stripped text, not the raw reply.
	require.Len(t, f.conversations.appended, 2)
	assert.Equal(t, "Great, noted!", f.conversations.appended[1].Content)
}

func TestProcessOrderRoundTrip(t *testing.T) {
	f := newPipelineFixture()
	f.completer.reply = "Order confirmed! [ORDER_DATA: 2x Blue Tumbler | COD | Colombo 05]"

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "Order confirmed!", reply)

	require.Len(t, f.leads.orders, 1)
	assert.Equal(t, "2x Blue Tumbler | COD | Colombo 05", f.leads.orders[0].Details)
	require.Len(t, f.sink.texts, 1)
	assert.Contains(t, f.sink.texts[0], "New Order!")
}

func TestProcessLeadInsertFailureSkipsAlert(t *testing.T) {
	f := newPipelineFixture()
	f.completer.reply = "Noted. [LEAD_DATA: Nimal | 077 | Mug]"
	f.leads.err = errors.New("constraint violation")

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "Noted.", reply)
	assert.Empty(t, f.sink.texts)
}

func TestProcessAlertFailureIsSwallowed(t *testing.T) {
	f := newPipelineFixture()
	f.completer.reply = "Noted. [LEAD_DATA: Nimal | 077 | Mug]"
	f.sink.err = errors.New("chat not found")

	reply, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "Noted.", reply)
	require.Len(t, f.leads.leads, 1)
}

func TestProcessModelTier(t *testing.T) {
	f := newPipelineFixture()
	f.tenants.profile.Tenant.Plan = entities.PlanPro

	_, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "pro", f.completer.opts.Tier)

	// A non-Pro plan never reaches the larger model, even when requested.
	f = newPipelineFixture()
	req := chatRequest()
	req.ModelTier = "pro"
	_, err = f.pipeline.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "", f.completer.opts.Tier)
}

func TestProcessTemperatureDefault(t *testing.T) {
	f := newPipelineFixture()
	f.tenants.profile.Config.Temperature = 0

	_, err := f.pipeline.Process(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.InDelta(t, 0.6, f.completer.opts.Temperature, 1e-9)
}

package usecases

import (
	"context"
	"strings"
	"sync"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
	"project_ria/internal/interfaces"
	"project_ria/internal/logger"
)

// ChatRequest is one inbound widget message.
type ChatRequest struct {
	TenantID  string
	SessionID string
	Message   string
	// ModelTier optionally requests the providers' larger model;
	// Pro-plan tenants get it implicitly.
	ModelTier string
	// PromptOverride replaces the tenant persona section for this request.
	PromptOverride string
}

// Completer is the dispatch step seen by the pipeline.
type Completer interface {
	Dispatch(ctx context.Context, messages []entities.ChatMessage, opts interfaces.CompletionOptions) (string, error)
}

// Pipeline is the per-message orchestration core:
// resolve -> gate -> assemble -> dispatch -> interpret -> commit.
// Stateless across requests; all shared state lives in the store.
type Pipeline struct {
	Tenants       interfaces.TenantStore
	Conversations interfaces.ConversationStore
	Usage         interfaces.UsageStore
	Leads         interfaces.LeadStore
	Dispatcher    Completer
	Alerts        []interfaces.AlertSink
	Log           *logger.Logger
}

const fallbackUnavailable = "Sorry, something went wrong on our side. Please try again in a moment."

// Process runs the pipeline for one message. Every outcome upstream of the
// model resolves to user-presentable reply text with a nil error; only a
// terminal fault (all providers down) returns a non-nil error, and the
// caller must then answer with a generic failure body.
func (p *Pipeline) Process(ctx context.Context, req ChatRequest) (string, error) {
	log := p.Log.WithTenant(req.TenantID, req.SessionID)

	profile, err := p.Tenants.Resolve(ctx, req.TenantID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindTenantNotFound {
			log.Warn("unknown_tenant")
			return fallbackInactive, nil
		}
		log.DatabaseError("tenant.resolve", err)
		return fallbackUnavailable, nil
	}
	tenant := &profile.Tenant

	if tenant.Status != entities.StatusActive {
		log.Info("tenant_not_operational", "status", tenant.Status)
		return fallbackInactive, nil
	}

	usage, err := p.Usage.TodayCount(ctx, tenant.ID)
	if err != nil {
		log.DatabaseError("usage.today", err)
		return fallbackUnavailable, nil
	}
	if verdict := CheckEntitlement(tenant, &profile.Config, usage); !verdict.Allowed {
		log.Info("entitlement_denied", "plan", tenant.Plan, "usage", usage)
		return verdict.Fallback, nil
	}

	history, err := p.Conversations.RecentTurns(ctx, req.SessionID, HistoryWindow(&profile.Config))
	if err != nil {
		// Degrade to an empty window rather than dropping the message.
		log.DatabaseError("conversation.recent", err)
		history = nil
	}

	system := BuildSystemPrompt(profile, req.PromptOverride)
	messages := AssembleContext(system, history, req.Message)

	reply, err := p.Dispatcher.Dispatch(ctx, messages, interfaces.CompletionOptions{
		Temperature: temperature(&profile.Config),
		Tier:        modelTier(tenant, req.ModelTier),
	})
	if err != nil {
		log.Error("all_providers_failed", "error", err.Error())
		return "", err
	}

	directive, visible := ExtractDirective(reply)
	p.commit(ctx, log, profile, req, directive, visible)

	return visible, nil
}

// commit persists the exchange, bumps usage and dispatches captured
// side-effects. The turn write, the usage increment and the lead path are
// independent and run concurrently. Failures here never suppress the reply
// that has already been computed.
func (p *Pipeline) commit(ctx context.Context, log *logger.Logger, profile *entities.TenantProfile, req ChatRequest, directive Directive, visible string) {
	tenant := &profile.Tenant

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		userTurn := entities.Turn{
			TenantID:  tenant.ID,
			SessionID: req.SessionID,
			Role:      entities.RoleUser,
			Content:   req.Message,
		}
		assistantTurn := entities.Turn{
			TenantID:  tenant.ID,
			SessionID: req.SessionID,
			Role:      entities.RoleAssistant,
			Content:   visible,
		}
		if err := p.Conversations.AppendExchange(ctx, userTurn, assistantTurn); err != nil {
			log.DatabaseError("conversation.append", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.Usage.Increment(ctx, tenant.ID); err != nil {
			log.DatabaseError("usage.increment", err)
		}
	}()

	if directive.Kind != DirectiveNone {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.commitDirective(ctx, log, tenant, directive)
		}()
	}

	wg.Wait()
}

func (p *Pipeline) commitDirective(ctx context.Context, log *logger.Logger, tenant *entities.Tenant, directive Directive) {
	var alert string

	switch directive.Kind {
	case DirectiveLead:
		lead := directive.Lead(tenant.ID)
		if err := p.Leads.InsertLead(ctx, lead); err != nil {
			log.DatabaseError("lead.insert", err)
			return
		}
		alert = LeadAlertText(lead)
	case DirectiveOrder:
		order := directive.Order(tenant.ID)
		if err := p.Leads.InsertOrder(ctx, order); err != nil {
			log.DatabaseError("order.insert", err)
			return
		}
		alert = OrderAlertText(order)
	default:
		return
	}

	p.FanOutAlert(ctx, tenant, alert)
}

// FanOutAlert delivers one alert to every configured channel. Best-effort:
// failures are logged and swallowed, never surfaced to the end user.
func (p *Pipeline) FanOutAlert(ctx context.Context, tenant *entities.Tenant, text string) {
	for _, sink := range p.Alerts {
		if err := sink.SendAlert(ctx, tenant, text); err != nil {
			p.Log.NotificationError(sink.Name(), err)
		}
	}
}

func temperature(cfg *entities.BotConfig) float64 {
	if cfg.Temperature <= 0 || cfg.Temperature > 2 {
		return 0.6
	}
	return cfg.Temperature
}

// modelTier resolves the effective model tier. The larger model is a
// Pro-plan feature; a requested tier can opt down but never upgrades past
// the plan.
func modelTier(tenant *entities.Tenant, requested string) string {
	if tenant.Plan != entities.PlanPro {
		return ""
	}
	if requested == "" || strings.EqualFold(requested, "pro") {
		return "pro"
	}
	return ""
}

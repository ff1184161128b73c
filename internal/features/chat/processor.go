package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/llm"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const upcomingTaskLimit = 10

// Model is a single-shot chat completion backend.
type Model interface {
	Complete(ctx context.Context, r llm.Request) (*llm.Completion, error)
}

type Options struct {
	FreeDailyLimit    int
	TrialDays         int
	EarlyAdopterLimit int
	HistoryLimit      int
	Now               func() time.Time
	Logger            *slog.Logger
}

// Turn is one authenticated chat message.
type Turn struct {
	UserID      uuid.UUID
	DisplayName string
	Request     *TurnRequest
}

// Outcome describes what a successful turn stored. The HTTP response only carries success.
type Outcome struct {
	TrialExpired  bool
	AssistantText string
	ToolCalls     int
	FactsSaved    []string
}

// Processor runs the chat pipeline. It holds no per-session state; concurrent turns on
// one session are not serialized.
type Processor struct {
	store  Store
	model  Model
	tools  *toolRunner
	users  UserCounter
	opts   Options
	limits Limits
}

func NewProcessor(store Store, model Model, finder PlaceFinder, users UserCounter, opts Options) *Processor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	return &Processor{
		store:  store,
		model:  model,
		tools:  &toolRunner{store: store, finder: finder, logger: opts.Logger},
		users:  users,
		opts:   opts,
		limits: Limits{FreeDailyMessages: opts.FreeDailyLimit, TrialDays: opts.TrialDays},
	}
}

func (p *Processor) ProcessTurn(ctx context.Context, turn Turn) (out *Outcome, err error) {
	start := p.opts.Now()
	defer func() {
		label := outcomeLabel(out, err)
		metrics.ChatTurnsTotal.WithLabelValues(label).Inc()
		if err != nil && label == "internal" {
			p.opts.Logger.Error("chat turn failed",
				"action", "chat.turn",
				"user_id", turn.UserID.String(),
				"session_id", sessionIDOf(turn),
				"error", err,
				"latency_ms", time.Since(start).Milliseconds(),
			)
		}
	}()

	if turn.UserID == uuid.Nil || turn.Request == nil {
		return nil, ErrUnauthenticated
	}
	req := turn.Request
	now := p.opts.Now()

	owner, err := p.store.SessionOwner(ctx, req.SessionID)
	if errors.Is(err, ErrNotFound) || (err == nil && owner != turn.UserID) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, internalErr("load session", err)
	}

	profile, err := p.loadProfile(ctx, turn, now)
	if err != nil {
		return nil, err
	}

	decision, err := Evaluate(profile, now, p.limits)
	if err != nil {
		return nil, err
	}
	if decision == ExpireTrial {
		return p.expireTrial(ctx, turn.UserID, req.SessionID)
	}

	if err := p.store.CreateMessage(ctx, &models.Message{
		ID:        uuid.New(),
		SessionID: req.SessionID,
		Role:      models.RoleUser,
		Content:   req.Message,
	}); err != nil {
		return nil, internalErr("store user message", err)
	}

	if err := p.store.UpdateProfile(ctx, turn.UserID, map[string]interface{}{
		"daily_message_count": EffectiveDailyCount(profile, now) + 1,
		"last_message_date":   dateOnly(now),
	}); err != nil {
		return nil, internalErr("update message counter", err)
	}

	pc, history, err := p.loadContext(ctx, profile, req.SessionID)
	if err != nil {
		return nil, err
	}

	earlyAdopter := p.opts.EarlyAdopterLimit > 0 && pc.RegisteredUsers > 0 && pc.RegisteredUsers <= int64(p.opts.EarlyAdopterLimit)
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: SystemPrompt(req.IsOnboarding, earlyAdopter, pc.Block(now)),
	})
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == models.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}

	completion, err := p.complete(ctx, turn, messages)
	if err != nil {
		return nil, err
	}

	out = &Outcome{ToolCalls: len(completion.ToolCalls)}
	parts := []string{completion.Content}
	parts = append(parts, p.tools.run(ctx, turn.UserID, req.Location, completion.ToolCalls)...)
	text := joinNonEmpty(parts, "\n\n")

	if req.IsOnboarding {
		facts, rejected := ParseFacts(completion.Content)
		for _, r := range rejected {
			p.opts.Logger.Warn("onboarding marker value rejected",
				"action", "chat.onboarding",
				"user_id", turn.UserID.String(),
				"session_id", req.SessionID.String(),
				"key", r.Key,
				"value", r.Value,
			)
		}
		saved, err := p.saveFacts(ctx, turn.UserID, facts)
		if err != nil {
			return nil, err
		}
		out.FactsSaved = saved
	}
	out.AssistantText = StripMarkers(text)

	if err := p.store.CreateMessage(ctx, &models.Message{
		ID:        uuid.New(),
		SessionID: req.SessionID,
		Role:      models.RoleAssistant,
		Content:   out.AssistantText,
	}); err != nil {
		return nil, internalErr("store assistant message", err)
	}
	return out, nil
}

func (p *Processor) loadProfile(ctx context.Context, turn Turn, now time.Time) (*models.Profile, error) {
	profile, err := p.store.GetProfile(ctx, turn.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, internalErr("load profile", err)
	}

	p.opts.Logger.Warn("profile missing, creating default", "user_id", turn.UserID.String())
	profile, err = p.store.CreateDefaultProfile(ctx, turn.UserID, turn.DisplayName, now)
	if err != nil {
		return nil, internalErr("create default profile", err)
	}
	return profile, nil
}

func (p *Processor) expireTrial(ctx context.Context, userID, sessionID uuid.UUID) (*Outcome, error) {
	notice := trialExpiredNotice(p.limits)
	if err := p.store.CreateMessage(ctx, &models.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   notice,
	}); err != nil {
		return nil, internalErr("store trial notice", err)
	}
	if err := p.store.UpdateProfile(ctx, userID, map[string]interface{}{
		"subscription_tier": models.TierFree,
	}); err != nil {
		return nil, internalErr("downgrade trial", err)
	}
	return &Outcome{TrialExpired: true, AssistantText: notice}, nil
}

// loadContext issues the independent reads of a turn concurrently.
func (p *Processor) loadContext(ctx context.Context, profile *models.Profile, sessionID uuid.UUID) (*PlanningContext, []models.Message, error) {
	pc := &PlanningContext{Profile: profile}
	var history []models.Message
	userID := profile.UserID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tl, err := p.store.GetTimeline(gctx, userID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return internalErr("load timeline", err)
		}
		pc.Timeline = tl
		return nil
	})
	g.Go(func() error {
		items, err := p.store.UpcomingChecklist(gctx, userID, upcomingTaskLimit)
		if err != nil {
			return internalErr("load checklist", err)
		}
		pc.Upcoming = items
		return nil
	})
	g.Go(func() error {
		total, completed, err := p.store.ChecklistCounts(gctx, userID)
		if err != nil {
			return internalErr("count checklist", err)
		}
		pc.TasksTotal, pc.TasksCompleted = total, completed
		return nil
	})
	g.Go(func() error {
		vendors, err := p.store.ListVendors(gctx, userID)
		if err != nil {
			return internalErr("load vendors", err)
		}
		pc.Vendors = vendors
		return nil
	})
	g.Go(func() error {
		msgs, err := p.store.RecentMessages(gctx, sessionID, p.opts.HistoryLimit)
		if err != nil {
			return internalErr("load history", err)
		}
		history = msgs
		return nil
	})
	if p.users != nil {
		g.Go(func() error {
			n, err := p.users.RegisteredUsers(gctx)
			if err != nil {
				// Pricing copy falls back to the standard variant.
				p.opts.Logger.Warn("registered user count unavailable", "error", err)
				return nil
			}
			pc.RegisteredUsers = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return pc, history, nil
}

func (p *Processor) complete(ctx context.Context, turn Turn, messages []llm.Message) (*llm.Completion, error) {
	started := time.Now()
	completion, err := p.model.Complete(ctx, llm.Request{
		Messages: messages,
		Tools:    []llm.Tool{searchVendorsDef},
	})
	metrics.ModelRequestDuration.Observe(time.Since(started).Seconds())
	if err == nil {
		return completion, nil
	}

	attrs := []any{
		"action", "chat.model",
		"user_id", turn.UserID.String(),
		"session_id", turn.Request.SessionID.String(),
		"error", err,
		"latency_ms", time.Since(started).Milliseconds(),
	}
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, "status", apiErr.StatusCode, "body", apiErr.Body)
	}
	p.opts.Logger.Error("completion request failed", attrs...)

	switch {
	case errors.Is(err, llm.ErrRateLimited), errors.Is(err, llm.ErrTimeout):
		return nil, ErrModelRateLimited
	case errors.Is(err, llm.ErrPaymentRequired):
		return nil, ErrModelPaymentRequired
	default:
		return nil, errors.Join(ErrModelInvocation, err)
	}
}

// saveFacts writes captured onboarding facts with at most one update per row.
func (p *Processor) saveFacts(ctx context.Context, userID uuid.UUID, facts []Fact) ([]string, error) {
	timeline := make(map[string]interface{})
	profile := make(map[string]interface{})
	var tasks []models.ChecklistItem
	var saved []string

	for _, f := range facts {
		switch f := f.(type) {
		case EngagementDate:
			timeline["engagement_date"] = f.Date
		case WeddingDate:
			timeline["wedding_date"] = f.Date
			profile["wedding_date"] = f.Date
		case RelationshipYears:
			profile["relationship_years"] = f.Value
		case PartnerName:
			profile["partner_name"] = f.Name
		case Budget:
			// No budget column exists; the amount is only recorded in logs.
			p.opts.Logger.Info("onboarding budget captured", "user_id", userID.String(), "budget", f.Amount)
		case CompletedTasks:
			for _, name := range f.Names {
				tasks = append(tasks, models.ChecklistItem{
					ID:        uuid.New(),
					UserID:    userID,
					TaskName:  name,
					Emoji:     "✅",
					Completed: true,
				})
			}
		}
		saved = append(saved, f.Key())
	}

	if len(timeline) > 0 {
		if err := p.store.UpdateTimeline(ctx, userID, timeline); err != nil {
			return nil, internalErr("save timeline facts", err)
		}
	}
	if len(profile) > 0 {
		if err := p.store.UpdateProfile(ctx, userID, profile); err != nil {
			return nil, internalErr("save profile facts", err)
		}
	}
	if len(tasks) > 0 {
		if err := p.store.CreateChecklistItems(ctx, tasks); err != nil {
			return nil, internalErr("save completed tasks", err)
		}
	}
	return saved, nil
}

func outcomeLabel(out *Outcome, err error) string {
	var verr *ValidationError
	switch {
	case err == nil && out != nil && out.TrialExpired:
		return "trial_expired_notice"
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrTrialExpired):
		return "trial_expired"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrModelRateLimited):
		return "model_rate_limited"
	case errors.Is(err, ErrModelPaymentRequired):
		return "model_payment_required"
	case errors.Is(err, ErrModelInvocation):
		return "model_error"
	default:
		return "internal"
	}
}

func sessionIDOf(turn Turn) string {
	if turn.Request == nil {
		return ""
	}
	return turn.Request.SessionID.String()
}

func joinNonEmpty(parts []string, sep string) string {
	var kept []string
	for _, s := range parts {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}

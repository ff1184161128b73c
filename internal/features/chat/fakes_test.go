package chat

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/llm"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/places"
	"github.com/google/uuid"
)

// memStore is an in-memory Store. writes counts every mutating call.
type memStore struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]uuid.UUID
	profiles  map[uuid.UUID]*models.Profile
	timelines map[uuid.UUID]*models.Timeline
	checklist []models.ChecklistItem
	vendors   []models.Vendor
	messages  []models.Message

	profileCount   int64
	profileUpdates int
	writes         int

	getProfileErr    error
	createVendorsErr error
}

func newMemStore() *memStore {
	return &memStore{
		sessions:  make(map[uuid.UUID]uuid.UUID),
		profiles:  make(map[uuid.UUID]*models.Profile),
		timelines: make(map[uuid.UUID]*models.Timeline),
	}
}

func (s *memStore) addSession(owner uuid.UUID) uuid.UUID {
	id := uuid.New()
	s.sessions[id] = owner
	return id
}

func (s *memStore) SessionOwner(_ context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.sessions[sessionID]
	if !ok {
		return uuid.Nil, ErrNotFound
	}
	return owner, nil
}

func (s *memStore) GetProfile(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getProfileErr != nil {
		return nil, s.getProfileErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) CreateDefaultProfile(_ context.Context, userID uuid.UUID, name string, now time.Time) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	p := &models.Profile{UserID: userID, Name: name, SubscriptionTier: models.TierTrial, TrialStartDate: &now, CreatedAt: now}
	s.profiles[userID] = p
	s.timelines[userID] = &models.Timeline{UserID: userID}
	cp := *p
	return &cp, nil
}

func (s *memStore) UpdateProfile(_ context.Context, userID uuid.UUID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.profileUpdates++
	p, ok := s.profiles[userID]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "daily_message_count":
			p.DailyMessageCount = v.(int)
		case "last_message_date":
			t := v.(time.Time)
			p.LastMessageDate = &t
		case "subscription_tier":
			p.SubscriptionTier = v.(string)
		case "partner_name":
			str := v.(string)
			p.PartnerName = &str
		case "relationship_years":
			str := v.(string)
			p.RelationshipYears = &str
		case "wedding_date":
			t := v.(time.Time)
			p.WeddingDate = &t
		}
	}
	return nil
}

func (s *memStore) GetTimeline(_ context.Context, userID uuid.UUID) (*models.Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tl, ok := s.timelines[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tl
	return &cp, nil
}

func (s *memStore) UpdateTimeline(_ context.Context, userID uuid.UUID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	tl, ok := s.timelines[userID]
	if !ok {
		tl = &models.Timeline{UserID: userID}
		s.timelines[userID] = tl
	}
	for k, v := range fields {
		t := v.(time.Time)
		switch k {
		case "engagement_date":
			tl.EngagementDate = &t
		case "wedding_date":
			tl.WeddingDate = &t
		}
	}
	return nil
}

func (s *memStore) UpcomingChecklist(_ context.Context, userID uuid.UUID, limit int) ([]models.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChecklistItem
	for _, item := range s.checklist {
		if item.UserID == userID && len(out) < limit {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *memStore) ChecklistCounts(_ context.Context, userID uuid.UUID) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total, completed int64
	for _, item := range s.checklist {
		if item.UserID != userID {
			continue
		}
		total++
		if item.Completed {
			completed++
		}
	}
	return total, completed, nil
}

func (s *memStore) CreateChecklistItems(_ context.Context, items []models.ChecklistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.checklist = append(s.checklist, items...)
	return nil
}

func (s *memStore) ListVendors(_ context.Context, userID uuid.UUID) ([]models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Vendor
	for _, v := range s.vendors {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memStore) ExistingVendorNames(_ context.Context, userID uuid.UUID, names []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	existing := make(map[string]bool)
	for _, v := range s.vendors {
		if v.UserID == userID && want[v.Name] {
			existing[v.Name] = true
		}
	}
	return existing, nil
}

func (s *memStore) CreateVendors(_ context.Context, vendors []models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createVendorsErr != nil {
		return s.createVendorsErr
	}
	s.writes++
	s.vendors = append(s.vendors, vendors...)
	return nil
}

func (s *memStore) RecentMessages(_ context.Context, sessionID uuid.UUID, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *memStore) CreateMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *memStore) CountProfiles(context.Context) (int64, error) {
	return s.profileCount, nil
}

func (s *memStore) messagesByRole(role string) []models.Message {
	var out []models.Message
	for _, m := range s.messages {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

type scriptedModel struct {
	completion *llm.Completion
	err        error
	calls      int
	last       llm.Request
}

func (m *scriptedModel) Complete(_ context.Context, r llm.Request) (*llm.Completion, error) {
	m.calls++
	m.last = r
	if m.err != nil {
		return nil, m.err
	}
	return m.completion, nil
}

func replyWith(content string, calls ...llm.ToolCall) *scriptedModel {
	return &scriptedModel{completion: &llm.Completion{Content: content, ToolCalls: calls}}
}

type fakeFinder struct {
	results []places.Place
	err     error
	calls   int
	last    places.Query
}

func (f *fakeFinder) Search(_ context.Context, q places.Query) ([]places.Place, error) {
	f.calls++
	f.last = q
	return f.results, f.err
}

type storeCounter struct{ store Store }

func (c storeCounter) RegisteredUsers(ctx context.Context) (int64, error) {
	return c.store.CountProfiles(ctx)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func searchCall(args string) llm.ToolCall {
	return llm.ToolCall{
		ID:       "call_1",
		Type:     "function",
		Function: llm.FunctionCall{Name: SearchVendorsTool, Arguments: args},
	}
}

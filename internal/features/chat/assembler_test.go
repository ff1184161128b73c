package chat

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysUntil(now.Add(36*time.Hour), now))
	assert.Equal(t, 1, DaysUntil(now.Add(time.Hour), now))
	assert.Equal(t, -1, DaysUntil(now.Add(-36*time.Hour), now))
	assert.Equal(t, 0, DaysUntil(now, now))
}

func TestBudgetTotals(t *testing.T) {
	total, paid := BudgetTotals([]models.Vendor{
		{Name: "Venue", Amount: ptr(1000.0), Paid: true},
		{Name: "DJ", Amount: ptr(500.0)},
		{Name: "Florist"},
	})
	assert.Equal(t, 1500.0, total)
	assert.Equal(t, 1000.0, paid)
}

func TestPlanningContextBlock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	wedding := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	engaged := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)

	pc := &PlanningContext{
		Profile:  &models.Profile{Name: "Jess", PartnerName: ptr("Alex"), RelationshipYears: ptr("5 years")},
		Timeline: &models.Timeline{EngagementDate: &engaged, WeddingDate: &wedding, CompletedTasks: 2},
		Upcoming: []models.ChecklistItem{
			{TaskName: "Send invites", Emoji: "💌", DueDate: ptr(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))},
		},
		TasksTotal:     5,
		TasksCompleted: 3,
		Vendors: []models.Vendor{
			{Name: "Sarah's Studio", Service: "photographer", Amount: ptr(1500.0), Paid: true},
		},
	}

	block := pc.Block(now)
	assert.Contains(t, block, "Bride: Jess")
	assert.Contains(t, block, "Partner: Alex")
	assert.Contains(t, block, "Together for: 5 years")
	assert.Contains(t, block, "Engaged on: 2025-02-14")
	assert.Contains(t, block, "Wedding date: 2026-09-19 (193 days away)")
	assert.Contains(t, block, "Checklist: 3 of 5 tasks completed")
	assert.Contains(t, block, "💌 Send invites, due 2026-04-01")
	assert.Contains(t, block, "Sarah's Studio (photographer), $1500.00 paid")
	assert.Contains(t, block, "Budget: $1500.00 committed, $1500.00 paid")
}

func TestPlanningContextBlockWithoutTimeline(t *testing.T) {
	pc := &PlanningContext{Profile: &models.Profile{}}
	block := pc.Block(time.Now())
	assert.Contains(t, block, "Bride: unknown")
	assert.Contains(t, block, "Wedding date: not set yet")
	assert.Contains(t, block, "Budget: $0.00 committed, $0.00 paid")
}

func TestSystemPromptVariants(t *testing.T) {
	assert.Contains(t, SystemPrompt(true, true, "CTX"), "[SAVE:engagement_date=YYYY-MM-DD]")
	assert.NotContains(t, SystemPrompt(true, true, "CTX"), "early-adopter")
	assert.Contains(t, SystemPrompt(false, true, "CTX"), "early-adopter")
	assert.Contains(t, SystemPrompt(false, false, "CTX"), "$9.99/month")
	assert.Contains(t, SystemPrompt(false, false, "CTX"), "CTX")
}

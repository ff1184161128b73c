package chat

import (
	"fmt"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
)

type Decision int

const (
	Allow Decision = iota
	// ExpireTrial means the turn ends with the expiration notice instead of a model reply.
	ExpireTrial
)

type Limits struct {
	FreeDailyMessages int
	TrialDays         int
}

// EffectiveDailyCount is the stored counter if it belongs to today, otherwise zero.
func EffectiveDailyCount(p *models.Profile, now time.Time) int {
	if p.LastMessageDate == nil || !sameDay(*p.LastMessageDate, now) {
		return 0
	}
	return p.DailyMessageCount
}

// TrialDaysElapsed counts whole days since the trial began (or since the profile was
// created when no start date was recorded).
func TrialDaysElapsed(p *models.Profile, now time.Time) int {
	start := p.CreatedAt
	if p.TrialStartDate != nil {
		start = *p.TrialStartDate
	}
	return int(math.Floor(now.Sub(start).Hours() / 24))
}

// Evaluate applies the tier rules in order: free quota, then trial lifetime.
func Evaluate(p *models.Profile, now time.Time, limits Limits) (Decision, error) {
	switch p.SubscriptionTier {
	case models.TierFree:
		if EffectiveDailyCount(p, now) >= limits.FreeDailyMessages {
			return Allow, ErrQuotaExceeded
		}
	case models.TierTrial:
		days := TrialDaysElapsed(p, now)
		if days == limits.TrialDays {
			return ExpireTrial, nil
		}
		if days > limits.TrialDays {
			return Allow, ErrTrialExpired
		}
	}
	return Allow, nil
}

func trialExpiredNotice(limits Limits) string {
	return fmt.Sprintf("💍 Your %d-day free trial has ended! You're now on the Free plan, which includes %d messages per day. "+
		"Upgrade to VIP anytime for unlimited planning help, and I'll be right here for every step to the aisle. ✨",
		limits.TrialDays, limits.FreeDailyMessages)
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

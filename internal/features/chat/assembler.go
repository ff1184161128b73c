package chat

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
)

// PlanningContext is everything the prompt is grounded on for one turn.
type PlanningContext struct {
	Profile         *models.Profile
	Timeline        *models.Timeline
	Upcoming        []models.ChecklistItem
	TasksTotal      int64
	TasksCompleted  int64
	Vendors         []models.Vendor
	RegisteredUsers int64
}

// DaysUntil rounds up to whole days. The result is negative once the date has passed.
func DaysUntil(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// BudgetTotals sums vendor amounts, treating a missing amount as zero.
func BudgetTotals(vendors []models.Vendor) (total, paid float64) {
	for _, v := range vendors {
		if v.Amount == nil {
			continue
		}
		total += *v.Amount
		if v.Paid {
			paid += *v.Amount
		}
	}
	return total, paid
}

func (pc *PlanningContext) weddingDate() *time.Time {
	if pc.Timeline != nil && pc.Timeline.WeddingDate != nil {
		return pc.Timeline.WeddingDate
	}
	if pc.Profile != nil {
		return pc.Profile.WeddingDate
	}
	return nil
}

// Block renders the context as plain text appended to the system prompt.
func (pc *PlanningContext) Block(now time.Time) string {
	var b strings.Builder
	b.WriteString("PLANNING CONTEXT\n")

	p := pc.Profile
	fmt.Fprintf(&b, "- Bride: %s\n", orUnknown(p.Name))
	if p.PartnerName != nil {
		fmt.Fprintf(&b, "- Partner: %s\n", *p.PartnerName)
	} else {
		b.WriteString("- Partner: not shared yet\n")
	}
	if p.RelationshipYears != nil {
		fmt.Fprintf(&b, "- Together for: %s\n", *p.RelationshipYears)
	}

	if pc.Timeline != nil && pc.Timeline.EngagementDate != nil {
		fmt.Fprintf(&b, "- Engaged on: %s\n", pc.Timeline.EngagementDate.Format(dateLayout))
	}
	if wd := pc.weddingDate(); wd != nil {
		fmt.Fprintf(&b, "- Wedding date: %s (%d days away)\n", wd.Format(dateLayout), DaysUntil(*wd, now))
	} else {
		b.WriteString("- Wedding date: not set yet\n")
	}
	if pc.Timeline != nil {
		fmt.Fprintf(&b, "- Milestones completed on the timeline: %d\n", pc.Timeline.CompletedTasks)
	}

	fmt.Fprintf(&b, "- Checklist: %d of %d tasks completed\n", pc.TasksCompleted, pc.TasksTotal)
	if len(pc.Upcoming) > 0 {
		b.WriteString("- Next tasks:\n")
		for _, item := range pc.Upcoming {
			due := "no due date"
			if item.DueDate != nil {
				due = "due " + item.DueDate.Format(dateLayout)
			}
			status := ""
			if item.Completed {
				status = " (done)"
			}
			fmt.Fprintf(&b, "  * %s %s, %s%s\n", item.Emoji, item.TaskName, due, status)
		}
	}

	total, paid := BudgetTotals(pc.Vendors)
	fmt.Fprintf(&b, "- Vendors booked: %d\n", len(pc.Vendors))
	for _, v := range pc.Vendors {
		line := fmt.Sprintf("  * %s (%s)", v.Name, orUnknown(v.Service))
		if v.Amount != nil {
			line += fmt.Sprintf(", $%.2f", *v.Amount)
			if v.Paid {
				line += " paid"
			}
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "- Budget: $%.2f committed, $%.2f paid", total, paid)
	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

package service

import (
	"github.com/straye-as/crm-analytics/internal/domain"
)

// MergeInteractions merges activities and notes, each already ordered newest
// first, into one newest-first sequence. Activities win ties so the merge is
// stable. A positive limit truncates the result.
func MergeInteractions(activities []domain.Activity, notes []domain.Note, limit int) []domain.Interaction {
	total := len(activities) + len(notes)
	if limit > 0 && limit < total {
		total = limit
	}
	items := make([]domain.Interaction, 0, total)

	i, j := 0, 0
	for len(items) < total {
		if j >= len(notes) || (i < len(activities) && !activities[i].StartTime.Before(notes[j].CreatedAt)) {
			items = append(items, activityInteraction(&activities[i]))
			i++
			continue
		}
		items = append(items, noteInteraction(&notes[j]))
		j++
	}
	return items
}

func activityInteraction(a *domain.Activity) domain.Interaction {
	return domain.Interaction{
		ID:         a.ID,
		Kind:       domain.InteractionKindActivity,
		Type:       a.Type,
		UserID:     a.UserID,
		ContactID:  a.ContactID,
		Summary:    a.Subject,
		OccurredAt: a.StartTime,
	}
}

func noteInteraction(n *domain.Note) domain.Interaction {
	return domain.Interaction{
		ID:         n.ID,
		Kind:       domain.InteractionKindNote,
		Type:       domain.ActivityTypeNote,
		UserID:     n.UserID,
		ContactID:  n.ContactID,
		Summary:    n.Content,
		OccurredAt: n.CreatedAt,
	}
}

package web

import (
	"fmt"
	"time"

	"mydiary/internal/server/models"
)

// noteView is the JSON shape of a note. Submitter hashes never leave the
// server.
type noteView struct {
	ID         int64             `json:"id"`
	Message    string            `json:"message"`
	SenderName string            `json:"sender_name,omitempty"`
	Anonymous  bool              `json:"anonymous"`
	Private    bool              `json:"private"`
	Category   models.Category   `json:"category"`
	Status     models.Status     `json:"status"`
	Reactions  map[string]int64  `json:"reactions"`
	Flagged    bool              `json:"flagged"`
	Read       bool              `json:"read"`
	CreatedAt  time.Time         `json:"created_at"`
	TimeAgo    string            `json:"time_ago"`
}

func newNoteView(n *models.Note) noteView {
	return noteView{
		ID:         n.ID,
		Message:    n.Message,
		SenderName: n.SenderName,
		Anonymous:  n.Anonymous,
		Private:    n.Private,
		Category:   n.Category,
		Status:     n.Status,
		Reactions: map[string]int64{
			string(models.ReactionHeart): n.Reactions.Heart,
			string(models.ReactionLaugh): n.Reactions.Laugh,
			string(models.ReactionWow):   n.Reactions.Wow,
		},
		Flagged:   n.Flagged,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		TimeAgo:   timeAgo(n.CreatedAt, time.Now()),
	}
}

func newNoteViews(items []*models.Note) []noteView {
	views := make([]noteView, 0, len(items))
	for _, n := range items {
		views = append(views, newNoteView(n))
	}
	return views
}

// ownerView is the JSON shape of an owner's public profile.
type ownerView struct {
	Handle    string    `json:"handle"`
	Bio       string    `json:"bio"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
}

func newOwnerView(o *models.Owner) ownerView {
	return ownerView{Handle: o.Handle, Bio: o.Bio, Theme: o.Theme, CreatedAt: o.CreatedAt}
}

// timeAgo renders a coarse relative timestamp for listings.
func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d >= 365*24*time.Hour:
		return plural(int(d/(365*24*time.Hour)), "year")
	case d >= 30*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month")
	case d >= 24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

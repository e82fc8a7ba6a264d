package auditlog

import (
	"time"

	"github.com/valera-kram/recipe-app-api/internal/app/store/audit"
)

type eventView struct {
	ID            string            `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	UserID        string            `json:"user_id,omitempty"`
	IP            string            `json:"ip"`
	UserAgent     string            `json:"user_agent,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toView(e audit.Event) eventView {
	v := eventView{
		ID:            e.ID.Hex(),
		CreatedAt:     e.CreatedAt,
		Category:      e.Category,
		EventType:     e.EventType,
		IP:            e.IP,
		UserAgent:     e.UserAgent,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.UserID != nil {
		v.UserID = e.UserID.Hex()
	}
	return v
}

var categories = map[string]bool{
	audit.CategoryAuth:    true,
	audit.CategoryAccount: true,
}

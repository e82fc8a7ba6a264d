package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	"github.com/valera-kram/recipe-app-api/internal/app/store/audit"
	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/paging"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// ServeList returns audit events newest first, one page at a time.
//
// Filters: user_id, category, event_type, success, since, until.
// since and until accept RFC 3339 timestamps or plain dates; a plain
// until date covers the whole day.
// GET /api/audit
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := &inputval.Result{}

	filter := audit.QueryFilter{
		EventType: strings.TrimSpace(q.Get("event_type")),
	}

	if s := strings.TrimSpace(q.Get("user_id")); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			res.Add("user_id", "Invalid user id.")
		} else {
			filter.UserID = &id
		}
	}

	if s := strings.TrimSpace(q.Get("category")); s != "" {
		if !categories[s] {
			res.Add("category", "\""+s+"\" is not a valid choice.")
		} else {
			filter.Category = s
		}
	}

	if s := strings.TrimSpace(q.Get("success")); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			res.Add("success", "Must be a valid boolean.")
		} else {
			filter.Success = &b
		}
	}

	if s := strings.TrimSpace(q.Get("since")); s != "" {
		t, ok := parseTime(s, false)
		if !ok {
			res.Add("since", "Enter a valid date/time.")
		} else {
			filter.StartTime = &t
		}
	}
	if s := strings.TrimSpace(q.Get("until")); s != "" {
		t, ok := parseTime(s, true)
		if !ok {
			res.Add("until", "Enter a valid date/time.")
		} else {
			filter.EndTime = &t
		}
	}

	page := paging.Parse(r, res)
	if res.HasErrors() {
		apierrors.WriteValidation(w, res)
		return
	}
	filter.Limit = page.Limit()
	filter.Offset = page.Offset()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "")
		return
	}

	rows := make([]eventView, 0, len(events))
	for _, e := range events {
		rows = append(rows, toView(e))
	}
	jsonio.Write(w, http.StatusOK, paging.NewEnvelope(page, total, rows))
}

// parseTime accepts RFC 3339 or a plain date. endOfDay moves a plain date
// to its last second.
func parseTime(s string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, true
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/liftnav/pkg/domain"
)

// SubscribeEvents handles the GET /events request (SSE).
//
// Every frame carries a full state snapshot, or a domain.StateDiff when format=diff.
// With watch=current, frames that leave the shown page unchanged are skipped; the
// next diff is taken against the last frame sent, so clients can rebuild the stack.
// Frames are conflated: a slow client only sees the latest state.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	query := r.URL.Query()
	watchCurrent := query.Get("watch") == "current"
	asDiff := query.Get("format") == "diff"

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	states := s.Nav.StateAsFlow(r.Context())
	s.logger.Info("SSE: Client subscribed", "watch_current", watchCurrent, "diff", asDiff)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var prev *domain.State
	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected")
			return
		case next, ok := <-states:
			if !ok {
				return
			}
			// prev is the last frame sent, so diffs over skipped frames accumulate.
			diff := domain.Diff(prev, next)
			if watchCurrent && !diff.PageChanged() {
				continue
			}

			var payload any = NewStateResponse(next)
			if asDiff {
				payload = diff
			}
			prev = &next

			data, err := json.Marshal(payload)
			if err != nil {
				s.logger.Error("SSE: encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

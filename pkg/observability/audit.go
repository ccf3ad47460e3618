package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/liftnav/pkg/domain"
)

// AuditHooks logs every handled transition at Info and every rejection at Warn.
// No-op outcomes are logged at Debug.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) {
			level := slog.LevelInfo
			if !e.Handled {
				level = slog.LevelDebug
			}
			logger.Log(context.Background(), level, "transition",
				"surface", e.Surface,
				"op", e.Operation,
				"handled", e.Handled,
				"from", pageName(e.From),
				"to", pageName(e.To),
				"index", e.To.CurrentIndex,
				"depth", e.To.Len(),
			)
		},
		OnRejected: func(e *domain.TransitionEvent, err error) {
			logger.Warn("transition rejected",
				"surface", e.Surface,
				"op", e.Operation,
				"err", err,
			)
		},
	}
}

func pageName(s domain.State) string {
	if d := s.Current(); d != nil {
		return d.String()
	}
	return "<corrupt>"
}

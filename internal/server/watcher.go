package server

import (
	"context"

	"github.com/Kush-Singh-26/devserve/internal/watch"
)

// watchRoot pushes a reload to every event-stream client whenever the
// served directory changes. A watcher that cannot start is logged and the
// server keeps running without live reload.
func (s *Server) watchRoot(ctx context.Context) error {
	w, err := watch.New(s.cfg.Root, s.cfg.DebounceDuration, func(e watch.Event) {
		s.logger.Debug("change detected", "path", e.Name, "op", e.Op.String())
		s.hub.Broadcast()
	}, s.logger)
	if err != nil {
		s.logger.Warn("Live reload disabled", "root", s.cfg.Root, "error", err)
		return nil
	}
	return w.Run(ctx)
}

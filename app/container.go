package app

import (
	"log/slog"

	"github.com/soocke/obb-label-go/config"
	"github.com/soocke/obb-label-go/domain/interaction"
	"github.com/soocke/obb-label-go/domain/labels"
	"github.com/soocke/obb-label-go/ui/presenter"
)

// Views are the rendering collaborators supplied by the hosting UI. Any of
// them may be nil for a headless session.
type Views struct {
	Canvas   presenter.CanvasView
	Status   presenter.StatusView
	Schedule func()
}

// BuildSession constructs and wires all components. Side-effects are limited
// to reading the progress file next to cfgPath; an empty cfgPath disables
// persistence.
func BuildSession(cfg *config.Config, cfgPath string, logger *slog.Logger, views Views) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	_ = cfg.Validate()
	s := &Session{Config: cfg, CfgPath: cfgPath, Logger: logger, index: -1}
	s.Classes = labels.NewClassTable(cfg.Classes)
	s.Store = labels.NewStore(0, 0, logger)
	s.Machine = interaction.NewMachine(s.Store, s.Classes, logger, cfg.HandleTolerance)
	s.Machine.SetDrawAngle(cfg.DrawAngle)

	s.Progress = &config.Progress{}
	if cfgPath != "" {
		progress, err := config.LoadProgress(cfg.ProgressPath(cfgPath))
		if err != nil && logger != nil {
			logger.Warn("progress file unreadable, starting empty", "error", err)
		}
		s.Progress = progress
	}

	// Presenters wired after store & machine are ready.
	if views.Canvas != nil {
		s.Canvas = presenter.NewCanvasPresenter(s.Machine, s.Store, s.Classes, views.Canvas)
		s.Machine.AddListener(s.Canvas.OnState)
		s.Store.AddListener(s.Canvas.OnChange)
	}
	if views.Status != nil {
		s.Status = presenter.NewStatusPresenter(s, views.Status)
	}
	s.Loop = presenter.NewLoop(s.Canvas, s.Status, views.Schedule)
	return s
}

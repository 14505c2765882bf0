package presenter

import (
	"time"
)

// ProgressSource reports dataset progress and the window title.
type ProgressSource interface {
	ProgressText() string
	Title() string
}

// StatusView displays the progress line and the window title.
type StatusView interface {
	SetProgress(string)
	SetTitle(string)
}

// StatusPresenter pushes progress and title to the view when they change.
type StatusPresenter struct {
	src      ProgressSource
	view     StatusView
	progress string
	title    string
}

// NewStatusPresenter returns a new StatusPresenter.
func NewStatusPresenter(src ProgressSource, view StatusView) *StatusPresenter {
	return &StatusPresenter{src: src, view: view}
}

// Tick updates the view with any changed text.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	if s := p.src.ProgressText(); s != p.progress {
		p.progress = s
		p.view.SetProgress(s)
	}
	if s := p.src.Title(); s != p.title {
		p.title = s
		p.view.SetTitle(s)
	}
}

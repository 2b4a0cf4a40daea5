package script

import (
	"errors"

	"github.com/drake/portal/api"
	"github.com/drake/portal/ui/components/dropdown"
)

// ProjectOptions returns base with the script's strategies substituted where
// defined. A strategy that fails at runtime is logged and the call falls back
// to base's behaviour (or the dropdown default), so a broken script never
// breaks the widget.
func (e *Engine) ProjectOptions(base dropdown.Options[api.WorkItem]) dropdown.Options[api.WorkItem] {
	hasDisplay, hasFilter, hasCompare := e.Strategies()
	opts := base

	if hasDisplay {
		fallback := base.Display
		if fallback == nil {
			fallback = dropdown.DefaultDisplay[api.WorkItem]
		}
		opts.Display = func(w api.WorkItem) string {
			s, err := e.Display(w)
			if err != nil {
				e.report("display", err)
				return fallback(w)
			}
			return s
		}
	}

	if hasFilter {
		fallback := base.Filter
		opts.Filter = func(w api.WorkItem, search string) bool {
			ok, err := e.Filter(w, search)
			if err != nil {
				e.report("filter", err)
				if fallback == nil {
					return true
				}
				return fallback(w, search)
			}
			return ok
		}
	}

	if hasCompare {
		fallback := base.Compare
		if fallback == nil {
			fallback = dropdown.DefaultCompare[api.WorkItem]
		}
		opts.Compare = func(a, b api.WorkItem) bool {
			eq, err := e.Compare(a, b)
			if err != nil {
				e.report("compare", err)
				return fallback(a, b)
			}
			return eq
		}
	}

	return opts
}

func (e *Engine) report(strategy string, err error) {
	if errors.Is(err, ErrNotDefined) {
		return
	}
	e.logger.Warn("script strategy failed", "strategy", strategy, "err", err)
}

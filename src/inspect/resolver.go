package inspect

import (
	"fmt"
	"log"
	"strings"
)

// Resolver tries its strategies in order and keeps the first result.
type Resolver struct {
	strategies []Strategy
}

// DefaultStrategies returns the standard chain over svc.
func DefaultStrategies(svc Services) []Strategy {
	return []Strategy{
		TkStrategy{Windows: svc.Windows},
		BrowserStrategy{Windows: svc.Windows, Accessibility: svc.Accessibility},
		NarrowingStrategy{Accessibility: svc.Accessibility},
		DirectStrategy{Direct: svc.Direct},
		DescentStrategy{Automation: svc.Automation},
		HitTestStrategy{Automation: svc.Automation},
	}
}

func NewResolver(svc Services) *Resolver {
	return NewResolverWithStrategies(DefaultStrategies(svc)...)
}

func NewResolverWithStrategies(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the best descriptor for p. It never fails: when every
// strategy is exhausted the result is NotFound with the collected reasons.
func (r *Resolver) Resolve(p Point, b Backend) Descriptor {
	var reasons []string
	for _, s := range r.strategies {
		d, err := attempt(s, p, b)
		if err != nil {
			log.Printf("resolve %s: %s demoted: %v", p, s.Name(), err)
			reasons = append(reasons, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		if d == nil {
			continue
		}
		if d.Strategy == "" {
			d.Strategy = s.Name()
		}
		d.Point, d.Backend = p, b
		log.Printf("resolve %s: %s -> %s", p, d.Strategy, d.Kind)
		return *d
	}

	diag := ErrElementNotFound.Error()
	if len(reasons) > 0 {
		diag += " (" + strings.Join(reasons, "; ") + ")"
	}
	return Descriptor{Kind: KindNotFound, Point: p, Backend: b, Diagnostic: diag}
}

// attempt runs one strategy, turning a panic into a demotion.
func attempt(s Strategy, p Point, b Backend) (d *Descriptor, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			d, err = nil, fmt.Errorf("%w: panic: %v", ErrStrategyUnavailable, rec)
		}
	}()
	return s.Attempt(p, b)
}

// maxParentChain bounds WindowTitle against handle cycles.
const maxParentChain = 256

// WindowTitle returns the first non-empty title found walking from h up
// through its parents, or "" when none of them has one.
func WindowTitle(win Windows, h Handle) string {
	if win == nil {
		return ""
	}
	seen := make(map[Handle]bool)
	for h != 0 && !seen[h] && len(seen) < maxParentChain {
		seen[h] = true
		if title, err := win.Text(h); err == nil && title != "" {
			return title
		}
		parent, err := win.Parent(h)
		if err != nil {
			return ""
		}
		h = parent
	}
	return ""
}

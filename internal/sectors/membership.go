// Package sectors aggregates per-ticker technicals into sector-level
// momentum and rotation views.
package sectors

import "github.com/jlim/tickerpulse/internal/strategyconfig"

// Membership is the static sector -> tickers mapping with a reverse
// lookup. Definition order is preserved: when a ticker appears in two
// sectors, the first definition wins the reverse lookup.
type Membership struct {
	order    []string
	tickers  map[string][]string
	reverse  map[string]string
	universe []string
}

// NewMembership builds the mapping from ordered sector definitions.
func NewMembership(defs []strategyconfig.SectorDef) *Membership {
	m := &Membership{
		tickers: make(map[string][]string, len(defs)),
		reverse: make(map[string]string),
	}
	for _, def := range defs {
		if _, dup := m.tickers[def.Name]; dup {
			continue
		}
		m.order = append(m.order, def.Name)
		m.tickers[def.Name] = append([]string(nil), def.Tickers...)
		for _, t := range def.Tickers {
			if _, taken := m.reverse[t]; !taken {
				m.reverse[t] = def.Name
				m.universe = append(m.universe, t)
			}
		}
	}
	return m
}

// Sectors lists sector names in definition order.
func (m *Membership) Sectors() []string {
	return append([]string(nil), m.order...)
}

// Tickers returns the constituents of one sector.
func (m *Membership) Tickers(sector string) ([]string, bool) {
	t, ok := m.tickers[sector]
	if !ok {
		return nil, false
	}
	return append([]string(nil), t...), true
}

// SectorOf is the reverse lookup; empty string when unmapped.
func (m *Membership) SectorOf(ticker string) string {
	return m.reverse[ticker]
}

// Universe lists every mapped ticker once, in definition order.
func (m *Membership) Universe() []string {
	return append([]string(nil), m.universe...)
}

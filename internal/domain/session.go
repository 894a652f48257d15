package domain

// Session is one user's in-progress build. Totals and Issues are kept in
// step with the selection by a mutation hook: totals first, then the rules,
// because the headroom rule reads the fresh wattage.
type Session struct {
	Name      string
	Selection *Selection
	Totals    Totals
	Issues    []string
	Stale     []StaleReference
}

func NewSession(sel *Selection) *Session {
	if sel == nil {
		sel = NewSelection()
	}
	s := &Session{Selection: sel}
	sel.OnMutate(func(*Selection) { s.refresh() })
	s.refresh()
	return s
}

func (s *Session) refresh() {
	s.Totals = Recompute(s.Selection)
	s.Issues = Evaluate(s.Selection, s.Totals)
}

// Compatible reports the positive "no issues detected" state.
func (s *Session) Compatible() bool { return len(s.Issues) == 0 }

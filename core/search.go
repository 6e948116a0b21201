package core

// runSearch finds every match for pattern (per §4.1), moves the cursor to
// the first at-or-after the current position, wrapping to the start if
// none, and marks the search flags on the document.
func runSearch(eng *Engine, doc *Document, st *VimState, pattern string) *Error {
	st.SearchPattern = pattern
	caseSensitive := false
	if eng.config != nil {
		caseSensitive = eng.config.CaseSensitiveSearch
	}
	matches, err := doc.FindMatches(pattern, false, caseSensitive)
	if err == ErrBadPattern {
		doc.RefreshSearchFlags(nil, -1)
		eng.DispatchSignal(SearchStateChangedSignal{Matches: nil, Current: -1})
		return newError(ErrBadPatternId, ErrBadPattern)
	}
	st.searchMatches = matches
	if len(matches) == 0 {
		doc.RefreshSearchFlags(nil, -1)
		st.searchCurrent = -1
		eng.DispatchMessage(SearchNotFoundMessage)
		eng.DispatchSignal(SearchStateChangedSignal{Matches: nil, Current: -1})
		return nil
	}

	var idx int
	if st.SearchForward {
		idx = firstAtOrAfter(matches, st.Cursor, eng)
	} else {
		idx = firstAtOrBefore(matches, st.Cursor, eng)
	}
	st.searchCurrent = idx
	doc.RefreshSearchFlags(matches, idx)
	eng.MoveCursor(doc, st, matches[idx])
	eng.DispatchSignal(SearchStateChangedSignal{Matches: matches, Current: idx})
	return nil
}

func rowMajorGTE(a, b GridPosition) bool {
	if a.Row != b.Row {
		return a.Row > b.Row
	}
	return a.Col >= b.Col
}

func rowMajorLTE(a, b GridPosition) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col <= b.Col
}

// firstAtOrAfter returns the index of the first match at-or-after cursor in
// row-major order, wrapping to the first match (and announcing the wrap)
// when every match precedes it.
func firstAtOrAfter(matches []GridPosition, cursor GridPosition, eng *Engine) int {
	for i, pos := range matches {
		if rowMajorGTE(pos, cursor) {
			return i
		}
	}
	eng.DispatchMessage(SearchWrappedMessage)
	return 0
}

// firstAtOrBefore is firstAtOrAfter's mirror for "?" backward search: the
// last match at-or-before cursor in row-major order, wrapping to the final
// match when every match follows it.
func firstAtOrBefore(matches []GridPosition, cursor GridPosition, eng *Engine) int {
	for i := len(matches) - 1; i >= 0; i-- {
		if rowMajorLTE(matches[i], cursor) {
			return i
		}
	}
	eng.DispatchMessage(SearchWrappedMessage)
	return len(matches) - 1
}

// stepSearch moves to the next (forward) or previous (backward) match,
// wrapping around the match list. No-op if there is no active search.
func stepSearch(eng *Engine, doc *Document, st *VimState, forward bool) {
	if len(st.searchMatches) == 0 {
		return
	}
	n := len(st.searchMatches)
	next := st.searchCurrent
	if forward {
		next = (next + 1) % n
	} else {
		next = (next - 1 + n) % n
	}
	if next == st.searchCurrent && n == 1 {
		// only one match in the document: stepping wraps back onto itself
	}
	st.searchCurrent = next
	doc.RefreshSearchFlags(st.searchMatches, next)
	eng.MoveCursor(doc, st, st.searchMatches[next])
	eng.DispatchSignal(SearchStateChangedSignal{Matches: st.searchMatches, Current: next})
}

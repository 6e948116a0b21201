package core

import "strings"

// commandMode drives the ':' Ex-command and '/'/'?' search mini-line. Which
// one is active is recorded on st.CommandLine so a single mode struct can
// serve both, matching how the view only ever shows one text buffer at a
// time.
type commandMode struct{}

func (m *commandMode) Name() Mode { return CommandMode }

func (m *commandMode) Enter(eng *Engine, doc *Document, st *VimState) {
	st.SetCommandLineText("")
}

func (m *commandMode) Exit(eng *Engine, doc *Document, st *VimState) {
	st.SetCommandLineText("")
}

func (m *commandMode) HandleKey(eng *Engine, doc *Document, st *VimState, key KeyEvent) *Error {
	switch key.Key {
	case KeyEscape:
		if st.CommandLine == CommandLineSearch {
			_ = runSearch(eng, doc, st, "")
		}
		eng.SetMode(doc, st, NormalMode)
		return nil

	case KeyBackspace:
		text := st.CommandLineText()
		if len(text) == 0 {
			eng.SetMode(doc, st, NormalMode)
			return nil
		}
		runes := []rune(text)
		st.SetCommandLineText(string(runes[:len(runes)-1]))
		return nil

	case KeyEnter:
		text := st.CommandLineText()
		kind := st.CommandLine
		eng.SetMode(doc, st, NormalMode)
		if kind == CommandLineSearch {
			st.PushSearchHistory(text)
			return runSearch(eng, doc, st, text)
		}
		st.PushCommandHistory(text)
		return runExCommand(eng, doc, st, text)

	case KeyUp, KeyDown:
		older := key.Key == KeyUp
		var text string
		var ok bool
		if st.CommandLine == CommandLineSearch {
			text, ok = st.RecallSearchHistory(older)
		} else {
			text, ok = st.RecallCommandHistory(older)
		}
		if ok {
			st.SetCommandLineText(text)
		}
		return nil

	default:
		if key.Rune != 0 {
			st.SetCommandLineText(st.CommandLineText() + string(key.Rune))
		}
		return nil
	}
}

// runExCommand parses and applies a single ':'-prefixed command line per
// spec §4.9. Unknown commands fail with ErrUnknownCommand; state is left
// unchanged on failure.
func runExCommand(eng *Engine, doc *Document, st *VimState, line string) *Error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	switch {
	case line == "w" || strings.HasPrefix(line, "w "):
		path := strings.TrimSpace(strings.TrimPrefix(line, "w"))
		if err := eng.Save(doc, path); err != nil {
			return newError(ErrIoId, err)
		}
		return nil

	case line == "q":
		eng.Quit(false)
		return nil
	case line == "q!":
		eng.Quit(true)
		return nil
	case line == "wq" || line == "x":
		if err := eng.Save(doc, ""); err != nil {
			return newError(ErrIoId, err)
		}
		eng.Quit(false)
		return nil

	case line == "help":
		eng.DispatchMessage(HelpMessage)
		return nil

	case strings.HasPrefix(line, "set "):
		return applySet(eng, strings.TrimPrefix(line, "set "))

	case strings.HasPrefix(line, "sort"):
		return runSort(doc, strings.TrimSpace(strings.TrimPrefix(line, "sort")))

	case strings.HasPrefix(line, "%s/") || strings.HasPrefix(line, "s/"):
		return runSubstitute(eng, doc, st, line)

	default:
		eng.DispatchMessage("unknown_command:" + line)
		return newError(ErrUnknownCommandId, ErrUnknownCommand)
	}
}

func applySet(eng *Engine, rest string) *Error {
	parts := strings.SplitN(rest, "=", 2)
	key := strings.TrimSpace(parts[0])
	value := ""
	if len(parts) > 1 {
		value = strings.TrimSpace(parts[1])
	} else {
		value = "on" // bare "set vim_mode" toggles on
	}
	if err := eng.config.ApplySet(key, value); err != nil {
		return newError(ErrUnknownCommandId, err)
	}
	return nil
}

func runSort(doc *Document, rest string) *Error {
	ascending := true
	if strings.HasSuffix(rest, "!") {
		ascending = false
		rest = strings.TrimSuffix(rest, "!")
	}
	rest = strings.TrimSpace(rest)
	col := 0
	if rest != "" {
		n, ok := parseUint(rest)
		if !ok {
			return newError(ErrUnknownCommandId, ErrUnknownCommand)
		}
		col = n
	}
	if err := doc.SortByColumn(col, ascending); err != nil {
		return newError(ErrOutOfBoundsId, err)
	}
	return nil
}

// runSubstitute implements ":s/from/to/[g]" (current row only) and
// ":%s/from/to/[g]" (whole document).
func runSubstitute(eng *Engine, doc *Document, st *VimState, line string) *Error {
	whole := strings.HasPrefix(line, "%s/")
	body := strings.TrimPrefix(line, "%s/")
	if !whole {
		body = strings.TrimPrefix(line, "s/")
	}
	parts := strings.SplitN(body, "/", 3)
	if len(parts) < 2 {
		return newError(ErrUnknownCommandId, ErrUnknownCommand)
	}
	from, to := parts[0], parts[1]
	global := len(parts) == 3 && strings.Contains(parts[2], "g")
	if from == "" {
		return newError(ErrBadPatternId, ErrBadPattern)
	}

	values := map[GridPosition]string{}
	startRow, endRow := st.Cursor.Row, st.Cursor.Row
	if whole {
		startRow, endRow = 0, doc.RowCount()-1
	}
	for r := startRow; r <= endRow; r++ {
		for c := 0; c < doc.ColumnCount(); c++ {
			pos := GridPosition{Row: r, Col: c}
			cell, ok := doc.GetCell(pos)
			if !ok || !strings.Contains(cell.Value, from) {
				continue
			}
			replaced := cell.Value
			if global {
				replaced = strings.ReplaceAll(replaced, from, to)
			} else {
				replaced = strings.Replace(replaced, from, to, 1)
			}
			if replaced != cell.Value {
				values[pos] = replaced
			}
		}
	}
	if len(values) == 0 {
		return nil
	}
	if err := eng.Execute(doc, st, NewBulkEditCellsCommand(values)); err != nil {
		return newError(ErrOutOfBoundsId, err)
	}
	return nil
}

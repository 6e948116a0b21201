package core

import "fmt"

// chord is the lookup key for a binding: a mode plus the key chord pressed.
type chord struct {
	Mode Mode
	Key  string
}

// Bindings is the config-driven (mode, key) -> action name map named by
// spec component C10: the customizable remap surface a config file can
// rewrite at runtime (":set" does not touch it). It documents the default chord table
// addressable by name (for a future remap-aware dispatcher, diagnostics,
// and help text); the built-in key handling in normal_mode.go etc. is
// hardcoded rather than routed through Lookup, the same split the teacher
// keeps between its default key switch and its own bindings config.
type Bindings struct {
	actions map[chord]string
}

// DefaultBindings returns the built-in chord table mirroring the Motions
// and Operators lists in spec §4.8.
func DefaultBindings() *Bindings {
	b := &Bindings{actions: map[chord]string{}}
	defaults := map[string]string{
		"h": "move_left", "j": "move_down", "k": "move_up", "l": "move_right",
		"w": "word_forward", "b": "word_backward",
		"0": "line_start", "^": "line_start", "$": "line_end",
		"gg": "doc_start", "G": "doc_end",
		"d": "op_delete", "c": "op_change", "y": "op_yank", "x": "delete_cell",
		"p": "paste_after", "P": "paste_before",
		"u": "undo", ".": "repeat_change",
		"v": "enter_visual_char", "V": "enter_visual_line",
	}
	for key, action := range defaults {
		b.actions[chord{Mode: NormalMode, Key: key}] = action
	}
	return b
}

// Lookup resolves the action bound to key in mode, falling back to "" (no
// binding) if none is configured.
func (b *Bindings) Lookup(mode Mode, key string) string {
	if b == nil {
		return ""
	}
	return b.actions[chord{Mode: mode, Key: key}]
}

// Set rebinds key in mode to action, used when reloading a config file
// that customizes the table (fsnotify-driven reload, see internal/config).
func (b *Bindings) Set(mode Mode, key, action string) {
	if b.actions == nil {
		b.actions = map[chord]string{}
	}
	b.actions[chord{Mode: mode, Key: key}] = action
}

// String renders a chord for diagnostics/logging.
func (c chord) String() string { return fmt.Sprintf("%s:%s", c.Mode, c.Key) }

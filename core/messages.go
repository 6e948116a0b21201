package core

// Well-known MessageSignal ids for status-line text the view can localize
// or style without string-matching Text.
const (
	ChangesSavedMessage   = "changes_saved"
	NoChangesToSaveMsg    = "no_changes_to_save"
	YankMessage           = "yanked"
	DeleteMessage         = "deleted"
	SearchWrappedMessage  = "search_wrapped"
	SearchNotFoundMessage = "pattern_not_found"
	SortedMessage         = "sorted"
	HelpMessage           = "help"
)

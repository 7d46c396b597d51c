// Package editor is the synchronisation layer behind a visual spec editor.
//
// An Editor owns one FormSpec for the lifetime of an editing session. Every
// successful mutation produces a new spec value, re-serialises it to TOML and
// hands the text to the OnChange callback, which the host treats as the new
// current value. Rejected mutations leave the spec untouched and emit nothing.
package editor

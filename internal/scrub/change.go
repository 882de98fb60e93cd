package scrub

// Kind names the category of a single reported modification.
type Kind string

const (
	// KindRemovedChar is one removed code point; the change carries its
	// codepoint and label.
	KindRemovedChar Kind = "removed_char"
	// KindWhitespaceOnlyToEmpty is a line of only spaces/tabs collapsed to an
	// empty line; the label records the run composition (e.g. "SP+TAB+SP").
	KindWhitespaceOnlyToEmpty Kind = "whitespace_only_to_empty"
	// KindTrailingWhitespaceTrimmed is a trimmed trailing space/tab run; the
	// label records the trimmed run composition.
	KindTrailingWhitespaceTrimmed Kind = "trailing_whitespace_trimmed"
)

// Change describes one atomic modification applied to a single line.
// Line numbers are 1-based and global to the file, matching diff conventions.
// Original and Cleaned hold the visualized renderings of the affected line
// before and after scrubbing (see Visualize). Path is stamped by callers that
// aggregate changes across files; the engine itself leaves it empty.
type Change struct {
	Path      string `json:"path,omitempty"`
	Line      int    `json:"line"`
	Kind      Kind   `json:"kind"`
	Codepoint string `json:"codepoint,omitempty"`
	Label     string `json:"label"`
	Original  string `json:"original,omitempty"`
	Cleaned   string `json:"cleaned,omitempty"`
}

// Result is the outcome of scrubbing one file's bytes. Cleaned aliases the
// input when nothing changed, so an unmodified file round-trips
// byte-identically. The engine retains no reference to a Result.
type Result struct {
	Cleaned     []byte   `json:"-"`
	Changes     []Change `json:"changes"`
	WasModified bool     `json:"was_modified"`
}

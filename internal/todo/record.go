// Package todo holds the authoritative in-memory todo state.
package todo

// Status is the completion state of a todo record.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
)

const (
	// MinIndent and MaxIndent bound the nesting level of a record.
	MinIndent = 0
	MaxIndent = 3
)

// Identity is an opaque platform id paired with its resolved display name.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record is a single todo extracted from a chat message. Timestamp is
// assigned by the store on insert and doubles as the record's identity:
// it is unique across all live records and is the only key mutations
// address records by.
type Record struct {
	Task        string   `json:"task"`
	Deadline    string   `json:"deadline,omitempty"`
	User        Identity `json:"user"`
	Channel     Identity `json:"channel"`
	Timestamp   string   `json:"timestamp"`
	Status      Status   `json:"status"`
	IndentLevel int      `json:"indentLevel"`
}

// ClampIndent forces level into [MinIndent, MaxIndent].
func ClampIndent(level int) int {
	if level < MinIndent {
		return MinIndent
	}
	if level > MaxIndent {
		return MaxIndent
	}
	return level
}

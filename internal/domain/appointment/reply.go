package appointment

import "strings"

type Reply int

const (
	ReplyUnknown Reply = iota
	ReplyConfirm
	ReplyCancel
)

// ClassifyReply reads a client's free-text answer to a confirmation request.
// Affirmative patterns win when a reply matches both.
func ClassifyReply(text string) Reply {
	r := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.Contains(r, "sim"), r == "1", r == "s", r == "confirmo", r == "confirmado":
		return ReplyConfirm
	case strings.Contains(r, "nao"), strings.Contains(r, "não"),
		r == "2", r == "n", r == "cancela", r == "cancelar":
		return ReplyCancel
	}
	return ReplyUnknown
}

// Package assistant answers help questions with fixed keyword-matched replies.
package assistant

import "strings"

// Replies returned by Respond.
const (
	ReplyLost     = "To report a lost item, go to 'Post Lost Item' and fill in the form."
	ReplyFound    = "To report a found item, click on 'Post Found Item' and provide details."
	ReplySearch   = "To search items, use the 'Search Lost' or 'Search Found' section."
	ReplyDelete   = "To delete your post, go to your dashboard and click the delete icon."
	ReplyEdit     = "To edit your item, click the edit button on your post in the dashboard."
	ReplyHelp     = "I can help you report, search, or view items. Try typing 'lost', 'found', or 'search'."
	ReplyFallback = "I'm not sure how to help with that. Try typing 'lost', 'found', or 'search'."
)

// rules are checked in order; the first keyword contained in the message wins.
var rules = []struct {
	keyword string
	reply   string
}{
	{"lost", ReplyLost},
	{"found", ReplyFound},
	{"search", ReplySearch},
	{"delete item", ReplyDelete},
	{"edit", ReplyEdit},
	{"help", ReplyHelp},
}

// Respond returns the canned reply for message. Matching is case-insensitive.
func Respond(message string) string {
	text := strings.ToLower(message)
	for _, r := range rules {
		if strings.Contains(text, r.keyword) {
			return r.reply
		}
	}
	return ReplyFallback
}

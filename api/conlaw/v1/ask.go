package v1

import (
	"github.com/conlawai/conlaw/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// AskReq asks one question about the constitution, optionally carrying the
// previous turns of the conversation.
type AskReq struct {
	g.Meta      `path:"/v1/ask" method:"post" tags:"qa"`
	Question    string           `json:"question" v:"required" dc:"natural language question"`
	ChatHistory []schema.Message `json:"chat_history" dc:"previous conversation turns, oldest first"`
}

type AskRes struct {
	g.Meta    `mime:"application/json"`
	Answer    string   `json:"answer" dc:"generated answer"`
	Sources   []Source `json:"sources" dc:"constitutional provisions the answer draws on"`
	Timestamp string   `json:"timestamp" dc:"server time, RFC3339"`
}

// Source is one article reference extracted from the retrieved context.
type Source struct {
	Type       string `json:"type" dc:"section type"`
	Article    string `json:"article" dc:"article reference, e.g. Article 14"`
	Content    string `json:"content" dc:"excerpt around the reference"`
	PageNumber string `json:"page_number" dc:"source page when known"`
	Section    string `json:"section" dc:"section name when known"`
}

package indexer

import (
	"context"
	"regexp"
	"strings"

	"github.com/conlawai/conlaw/core/common"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
)

// articleNumberPattern captures the first referenced article number with its
// optional amendment letter (Article 21, Article 51A).
var articleNumberPattern = regexp.MustCompile(`Article (\d+[A-Z]?)`)

// sectionKeywords maps text markers to curated section types. Order matters:
// the first hit wins.
var sectionKeywords = []struct {
	keyword     string
	sectionType string
}{
	{"FUNDAMENTAL RIGHTS", "Fundamental Rights"},
	{"DIRECTIVE PRINCIPLES", "Directive Principles"},
	{"FUNDAMENTAL DUTIES", "Fundamental Duties"},
	{"UNION GOVERNMENT", "Union Government"},
	{"STATE GOVERNMENT", "State Government"},
	{"JUDICIARY", "Judiciary"},
	{"EMERGENCY PROVISIONS", "Emergency Provisions"},
}

// Enricher fills per-chunk metadata that retrieval and source extraction
// rely on: the first referenced article, a curated section type, and the
// chunk's leading line as its section name. A chunk without a match keeps
// whatever the loader set; enrichment never fails.
type Enricher struct{}

// NewEnricher creates a metadata enricher.
func NewEnricher() *Enricher {
	return &Enricher{}
}

// Transform enriches every chunk in place.
func (e *Enricher) Transform(ctx context.Context, chunks []*schema.Document, opts ...document.TransformerOption) ([]*schema.Document, error) {
	for _, chunk := range chunks {
		if chunk.MetaData == nil {
			chunk.MetaData = make(map[string]interface{})
		}

		if match := articleNumberPattern.FindStringSubmatch(chunk.Content); match != nil {
			chunk.MetaData[common.MetaArticleNumber] = match[1]
		}

		upper := strings.ToUpper(chunk.Content)
		for _, kw := range sectionKeywords {
			if strings.Contains(upper, kw.keyword) {
				chunk.MetaData[common.MetaSectionType] = kw.sectionType
				break
			}
		}

		if name := firstNonEmptyLine(chunk.Content); name != "" {
			chunk.MetaData[common.MetaSectionName] = name
		}
	}
	return chunks, nil
}

func firstNonEmptyLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

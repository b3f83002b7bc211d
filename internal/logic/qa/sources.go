package qa

import (
	"regexp"
	"sort"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/pkg/schema"
)

// articleReferencePattern matches every citable article reference,
// including amendment letters and clause markers (Article 51A(a)).
var articleReferencePattern = regexp.MustCompile(`Article (\d+[A-Z]?(?:\([a-z]\))?)`)

// sentenceBoundaryPattern marks the end of a sentence inside an excerpt
// window: a terminator followed by whitespace.
var sentenceBoundaryPattern = regexp.MustCompile(`[.!?]\s+`)

const (
	defaultSourceType = "Constitutional Provision"
	unknownPageNumber = "Unknown"
	sourceWindowSize  = 200
)

// SourceReference is one citable reference surfaced with an answer.
// Recomputed per query, never persisted.
type SourceReference struct {
	Type       string `json:"type"`
	Article    string `json:"article"`
	Content    string `json:"content"`
	PageNumber string `json:"page_number"`
	Section    string `json:"section"`
}

// ExtractSources scans the retrieved chunks for every article reference and
// returns one source per distinct (article, type) pair, first occurrence
// winning, ordered by article reference.
func ExtractSources(docs []*schema.Document) []SourceReference {
	sources := make([]SourceReference, 0)
	seen := make(map[string]bool)

	for _, doc := range docs {
		matches := articleReferencePattern.FindAllStringIndex(doc.Content, -1)
		for _, loc := range matches {
			articleRef := doc.Content[loc[0]:loc[1]]

			sourceType := doc.MetaString(common.MetaSectionType, "")
			if sourceType == "" {
				sourceType = defaultSourceType
			}

			key := articleRef + ":" + sourceType
			if seen[key] {
				continue
			}
			seen[key] = true

			sources = append(sources, SourceReference{
				Type:       sourceType,
				Article:    articleRef,
				Content:    excerptAround(doc.Content, loc[0], sourceWindowSize),
				PageNumber: doc.MetaString(common.MetaPageNumber, unknownPageNumber),
				Section:    doc.MetaString(common.MetaSectionName, ""),
			})
		}
	}

	sortSourcesByArticle(sources)
	return sources
}

// lessByArticleReference orders sources by the raw reference string, so
// "Article 100" sorts before "Article 14". The ordering is lexicographic,
// not numeric; switching to numeric order would change the public response
// order for every multi-source answer.
func lessByArticleReference(a, b SourceReference) bool {
	return a.Article < b.Article
}

func sortSourcesByArticle(sources []SourceReference) {
	sort.SliceStable(sources, func(i, j int) bool {
		return lessByArticleReference(sources[i], sources[j])
	})
}

// excerptAround returns a window of about size characters centered on pos,
// cut back to complete sentences when the window contains at least one
// sentence boundary, otherwise hard truncated with an ellipsis.
func excerptAround(content string, pos, size int) string {
	start := pos - size/2
	if start < 0 {
		start = 0
	}
	end := pos + size/2
	if end > len(content) {
		end = len(content)
	}
	window := content[start:end]

	boundaries := sentenceBoundaryPattern.FindAllStringIndex(window, -1)
	if len(boundaries) == 0 {
		return window + "..."
	}
	last := boundaries[len(boundaries)-1]
	return window[:last[0]+1]
}

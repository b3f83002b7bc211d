package schema

import (
	"math"
	"strconv"

	einoschema "github.com/cloudwego/eino/schema"
)

// Document is one chunk of corpus text together with its metadata.
// The ingestion pipeline produces these, the vector store persists
// them, and retrieval returns them with Score populated.
type Document struct {
	ID       string                 `json:"id,omitempty"`
	Content  string                 `json:"content"`
	MetaData map[string]interface{} `json:"metadata,omitempty"`
	Score    float32                `json:"score"`
}

// FromEinoDocument converts a document coming out of the eino
// loading/transform pipeline into our storage representation.
func FromEinoDocument(doc *einoschema.Document) *Document {
	if doc == nil {
		return nil
	}
	meta := make(map[string]interface{}, len(doc.MetaData))
	for k, v := range doc.MetaData {
		meta[k] = v
	}
	return &Document{
		ID:       doc.ID,
		Content:  doc.Content,
		MetaData: meta,
	}
}

// FromEinoDocuments converts a slice of eino documents, preserving order.
func FromEinoDocuments(docs []*einoschema.Document) []*Document {
	out := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		out = append(out, FromEinoDocument(doc))
	}
	return out
}

// MetaString returns the metadata value for key as a string, or def
// when the key is absent or not a string. JSON round-trips turn ints
// into float64, so numeric values are formatted rather than dropped.
func (d *Document) MetaString(key, def string) string {
	if d == nil || d.MetaData == nil {
		return def
	}
	v, ok := d.MetaData[key]
	if !ok || v == nil {
		return def
	}
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return def
	}
}

// MetaInt returns the metadata value for key as an int, or def when
// the key is absent. Values that crossed a JSON boundary arrive as
// float64 and are converted back.
func (d *Document) MetaInt(key string, def int) int {
	if d == nil || d.MetaData == nil {
		return def
	}
	v, ok := d.MetaData[key]
	if !ok || v == nil {
		return def
	}
	switch val := v.(type) {
	case int:
		return val
	case int32:
		return int(val)
	case int64:
		return int(val)
	case float32:
		return int(val)
	case float64:
		return int(val)
	default:
		return def
	}
}

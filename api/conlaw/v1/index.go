package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// BuildIndexReq builds the vector index from the downloaded corpus. An
// existing index is reused unless force is set.
type BuildIndexReq struct {
	g.Meta `path:"/v1/index/build" method:"post" tags:"index"`
	Force  bool `json:"force" d:"false" dc:"rebuild even when an index exists"`
}

type BuildIndexRes struct {
	g.Meta        `mime:"application/json"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	DocumentCount int64  `json:"document_count" dc:"indexed chunk count"`
	IndexPath     string `json:"index_path"`
}

// FlushIndexReq deletes every persisted index artifact. Flushing when no
// index exists succeeds with a corresponding message.
type FlushIndexReq struct {
	g.Meta `path:"/v1/index/flush" method:"post" tags:"index"`
}

type FlushIndexRes struct {
	g.Meta  `mime:"application/json"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// IndexStatusReq reports the persisted index state without changing it.
type IndexStatusReq struct {
	g.Meta `path:"/v1/index/status" method:"get" tags:"index"`
}

type IndexStatusRes struct {
	g.Meta        `mime:"application/json"`
	Status        string  `json:"status" dc:"not_found | active | exists_but_empty"`
	Message       string  `json:"message"`
	DocumentCount int64   `json:"document_count"`
	IndexPath     string  `json:"index_path"`
	LastModified  string  `json:"last_modified,omitempty" dc:"index mtime, RFC3339"`
	IndexSizeMB   float64 `json:"index_size_mb"`
}

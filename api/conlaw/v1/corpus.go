package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// DownloadCorpusReq downloads the constitution source files into the corpus
// store. An already present corpus is left alone unless force is set.
type DownloadCorpusReq struct {
	g.Meta `path:"/v1/corpus/download" method:"post" tags:"corpus"`
	Force  bool `json:"force" d:"false" dc:"redownload files that already exist"`
}

type DownloadCorpusRes struct {
	g.Meta     `mime:"application/json"`
	Status     string       `json:"status" dc:"success | partial | failed"`
	Message    string       `json:"message"`
	Downloaded int          `json:"downloaded"`
	Failed     int          `json:"failed"`
	Files      []CorpusFile `json:"files,omitempty"`
}

// CorpusFile is the download outcome of a single corpus file.
type CorpusFile struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Success  bool   `json:"success"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum,omitempty"`
	Error    string `json:"error,omitempty"`
}

package conlaw

import (
	"context"

	v1 "github.com/conlawai/conlaw/api/conlaw/v1"
)

func (c *ControllerV1) DownloadCorpus(ctx context.Context, req *v1.DownloadCorpusReq) (res *v1.DownloadCorpusRes, err error) {
	result, err := c.fetcher.Fetch(ctx, req.Force)
	if err != nil {
		return nil, err
	}

	files := make([]v1.CorpusFile, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, v1.CorpusFile{
			Name:     f.Name,
			URL:      f.URL,
			Success:  f.Success,
			Size:     f.Size,
			Checksum: f.Checksum,
			Error:    f.Error,
		})
	}

	status := "success"
	switch {
	case result.Failed > 0 && result.Downloaded > 0:
		status = "partial"
	case result.Failed > 0:
		status = "failed"
	}

	return &v1.DownloadCorpusRes{
		Status:     status,
		Message:    result.Message,
		Downloaded: result.Downloaded,
		Failed:     result.Failed,
		Files:      files,
	}, nil
}

package conlaw

import (
	"context"

	v1 "github.com/conlawai/conlaw/api/conlaw/v1"
)

func (c *ControllerV1) IndexStatus(ctx context.Context, req *v1.IndexStatusReq) (res *v1.IndexStatusRes, err error) {
	status, err := c.manager.Status(ctx)
	if err != nil {
		return nil, err
	}

	return &v1.IndexStatusRes{
		Status:        status.Status,
		Message:       status.Message,
		DocumentCount: status.DocumentCount,
		IndexPath:     status.IndexPath,
		LastModified:  status.LastModified,
		IndexSizeMB:   status.IndexSizeMB,
	}, nil
}

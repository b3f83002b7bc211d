package conlaw

import (
	"context"

	v1 "github.com/conlawai/conlaw/api/conlaw/v1"
)

func (c *ControllerV1) FlushIndex(ctx context.Context, req *v1.FlushIndexReq) (res *v1.FlushIndexRes, err error) {
	outcome, err := c.manager.Flush(ctx)
	if err != nil {
		return nil, err
	}

	return &v1.FlushIndexRes{
		Status:  "success",
		Message: outcome.Message,
	}, nil
}

package conlaw

import (
	"context"
	"time"

	v1 "github.com/conlawai/conlaw/api/conlaw/v1"
)

func (c *ControllerV1) Health(ctx context.Context, req *v1.HealthReq) (res *v1.HealthRes, err error) {
	return &v1.HealthRes{
		Status:    "ok",
		Service:   serviceName,
		Version:   serviceVersion,
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

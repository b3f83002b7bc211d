package conlaw

import (
	"context"

	v1 "github.com/conlawai/conlaw/api/conlaw/v1"
)

func (c *ControllerV1) BuildIndex(ctx context.Context, req *v1.BuildIndexReq) (res *v1.BuildIndexRes, err error) {
	outcome, err := c.manager.Build(ctx, req.Force)
	if err != nil {
		return nil, err
	}

	message := "Vector index built successfully"
	if !outcome.Rebuilt {
		message = "Index already exists, reusing it"
	}

	return &v1.BuildIndexRes{
		Status:        "success",
		Message:       message,
		DocumentCount: outcome.DocumentCount,
		IndexPath:     outcome.IndexPath,
	}, nil
}

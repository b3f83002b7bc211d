package conlaw

import (
	"context"
	"time"

	v1 "github.com/conlawai/conlaw/api/conlaw/v1"
)

func (c *ControllerV1) Ask(ctx context.Context, req *v1.AskReq) (res *v1.AskRes, err error) {
	result, err := c.manager.Answer(ctx, req.Question, req.ChatHistory)
	if err != nil {
		return nil, err
	}

	sources := make([]v1.Source, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, v1.Source{
			Type:       src.Type,
			Article:    src.Article,
			Content:    src.Content,
			PageNumber: src.PageNumber,
			Section:    src.Section,
		})
	}

	return &v1.AskRes{
		Answer:    result.Answer,
		Sources:   sources,
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

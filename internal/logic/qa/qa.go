package qa

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/core/retriever"
	"github.com/conlawai/conlaw/pkg/schema"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/gogf/gf/v2/frame/g"
)

// QA answers constitution questions: retrieve context, compose the prompt,
// generate once, extract the cited sources.
type QA struct {
	retriever *retriever.Retriever
	chatModel einoModel.BaseChatModel
}

// AnswerResult is one answered question.
type AnswerResult struct {
	Answer  string
	Sources []SourceReference
}

// New wires the QA service.
func New(r *retriever.Retriever, chatModel einoModel.BaseChatModel) (*QA, error) {
	if r == nil || chatModel == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "qa service requires retriever and chat model")
	}
	return &QA{retriever: r, chatModel: chatModel}, nil
}

// Answer runs the query pipeline for one question. History is the caller's
// prior turns, replayed in order.
func (q *QA) Answer(ctx context.Context, question string, history []schema.Message) (*AnswerResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "question must not be empty")
	}

	docs, err := q.retriever.Retrieve(ctx, &retriever.RetrieveReq{Query: question})
	if err != nil {
		return nil, err
	}

	g.Log().Infof(ctx, "Processing question: %s", question)

	response, err := q.chatModel.Generate(ctx, buildMessages(question, docs, history))
	if err != nil {
		return nil, classifyGenerationError(err)
	}
	answer := response.Content

	g.Log().Infof(ctx, "Generated answer of length %d", len(answer))

	return &AnswerResult{
		Answer:  answer,
		Sources: ExtractSources(docs),
	}, nil
}

// classifyGenerationError separates deadline failures from other model
// failures at the only place the raw transport error is still visible.
func classifyGenerationError(err error) error {
	if os.IsTimeout(err) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Newf(errors.ErrUpstreamTimeout, "chat completion timed out: %v", err)
	}
	return errors.Newf(errors.ErrGeneration, "chat completion failed: %v", err)
}

package indexer

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/errors"

	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// BatchInfo is one embedding batch.
type BatchInfo struct {
	Index int
	Start int
	End   int
	Texts []string
}

// BatchResult is the outcome of one embedding batch.
type BatchResult struct {
	BatchIndex int
	Vectors    [][]float32
	Err        error
}

// BatchEmbedder embeds chunk texts in bounded concurrent batches. Any batch
// failure fails the whole run, so a partial set of vectors never reaches the
// index.
type BatchEmbedder struct {
	embedder    common.Embedder
	dimension   int
	batchSize   int
	concurrency int
}

// NewBatchEmbedder creates a batch embedder. Non-positive batch size and
// concurrency fall back to 30 and 3.
func NewBatchEmbedder(embedder common.Embedder, dimension, batchSize, concurrency int) (*BatchEmbedder, error) {
	if embedder == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "embedder is nil")
	}
	if batchSize <= 0 {
		batchSize = 30
	}
	if concurrency <= 0 {
		concurrency = 3
	}
	return &BatchEmbedder{
		embedder:    embedder,
		dimension:   dimension,
		batchSize:   batchSize,
		concurrency: concurrency,
	}, nil
}

// EmbedChunks returns one vector per chunk, in chunk order.
func (b *BatchEmbedder) EmbedChunks(ctx context.Context, chunks []*schema.Document) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}

	g.Log().Infof(ctx, "Starting vectorization of %d chunks (batchSize: %d, concurrency: %d)",
		len(chunks), b.batchSize, b.concurrency)

	batches := b.createBatches(chunks)

	resultChan := make(chan BatchResult, len(batches))
	semaphore := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for _, batch := range batches {
		wg.Add(1)
		go func(batch BatchInfo) {
			defer wg.Done()
			defer common.RecoverPanic(ctx, fmt.Sprintf("embedding batch %d", batch.Index))

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			vectors, err := b.embedder.EmbedStrings(ctx, batch.Texts)
			if err != nil {
				resultChan <- BatchResult{BatchIndex: batch.Index, Err: classifyBatchError(batch.Index, err)}
				return
			}
			if err := b.checkVectors(batch, vectors); err != nil {
				resultChan <- BatchResult{BatchIndex: batch.Index, Err: err}
				return
			}

			resultChan <- BatchResult{BatchIndex: batch.Index, Vectors: vectors}
			g.Log().Debugf(ctx, "Batch %d completed, texts: %d", batch.Index, len(batch.Texts))
		}(batch)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	batchResults := make([]BatchResult, len(batches))
	for result := range resultChan {
		if result.Err != nil {
			return nil, result.Err
		}
		batchResults[result.BatchIndex] = result
	}

	// Reassemble in batch order. A slot with no vectors and no error means
	// its worker died before reporting; fail the run rather than index a gap.
	vectors := make([][]float32, 0, len(chunks))
	for _, batch := range batches {
		result := batchResults[batch.Index]
		if result.Vectors == nil {
			return nil, errors.Newf(errors.ErrEmbeddingService, "embedding batch %d produced no result", batch.Index)
		}
		vectors = append(vectors, result.Vectors...)
	}

	g.Log().Infof(ctx, "Vectorization completed, total vectors: %d", len(vectors))
	return vectors, nil
}

func (b *BatchEmbedder) createBatches(chunks []*schema.Document) []BatchInfo {
	var batches []BatchInfo
	batchCount := int(math.Ceil(float64(len(chunks)) / float64(b.batchSize)))

	for i := 0; i < batchCount; i++ {
		start := i * b.batchSize
		end := start + b.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batchChunks := chunks[start:end]
		texts := make([]string, len(batchChunks))
		for j, chunk := range batchChunks {
			texts[j] = chunk.Content
		}

		batches = append(batches, BatchInfo{
			Index: i,
			Start: start,
			End:   end,
			Texts: texts,
		})
	}

	return batches
}

func (b *BatchEmbedder) checkVectors(batch BatchInfo, vectors [][]float32) error {
	if len(vectors) != len(batch.Texts) {
		return errors.Newf(errors.ErrEmbeddingService, "batch %d returned %d vectors for %d texts",
			batch.Index, len(vectors), len(batch.Texts))
	}
	if b.dimension > 0 {
		for i, vec := range vectors {
			if len(vec) != b.dimension {
				return errors.Newf(errors.ErrEmbeddingService, "batch %d vector %d has dimension %d, expected %d",
					batch.Index, i, len(vec), b.dimension)
			}
		}
	}
	return nil
}

// classifyBatchError keeps the embedder's error code (timeouts stay
// timeouts) while recording which batch failed.
func classifyBatchError(batchIndex int, err error) error {
	if appErr := errors.GetAppError(err); appErr != nil {
		return errors.Newf(appErr.Code, "batch %d failed: %v", batchIndex, err)
	}
	return errors.Newf(errors.ErrEmbeddingService, "batch %d failed: %v", batchIndex, err)
}

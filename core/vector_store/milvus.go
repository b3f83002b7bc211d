package vector_store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
	milvusModel "github.com/conlawai/conlaw/internal/model/milvus"
	"github.com/conlawai/conlaw/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
)

// MilvusStore keeps the chunk index in a Milvus collection.
type MilvusStore struct {
	client     *milvusclient.Client
	database   string
	collection string
	dimension  int
	metricType string
}

// NewMilvusStore connects to Milvus and binds to the configured
// collection.
func NewMilvusStore(ctx context.Context, cfg *config.Config) (*MilvusStore, error) {
	address := cfg.Milvus.Address
	if address == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "milvus.address is required but not found in config file. Please check your config.yaml file and ensure milvus.address is properly set")
	}
	if !common.ValidateCollectionName(cfg.Milvus.Collection) {
		return nil, errors.Newf(errors.ErrInvalidParameter, "invalid milvus collection name: %s", cfg.Milvus.Collection)
	}

	g.Log().Infof(ctx, "Connecting to Milvus at: %s, database: %s", address, cfg.Milvus.DBName)

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: address,
		DBName:  cfg.Milvus.DBName,
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to create milvus client (address: %s, database: %s): %v", address, cfg.Milvus.DBName, err)
	}

	return &MilvusStore{
		client:     client,
		database:   cfg.Milvus.DBName,
		collection: cfg.Milvus.Collection,
		dimension:  cfg.Embedding.Dimension,
		metricType: cfg.VectorStore.MetricType,
	}, nil
}

// milvusMetric maps the configured metric to the Milvus metric type.
func milvusMetric(metricType string) entity.MetricType {
	switch strings.ToUpper(metricType) {
	case "L2":
		return entity.L2
	case "IP", "INNER_PRODUCT":
		return entity.IP
	default:
		return entity.COSINE
	}
}

// EnsureReady creates the database and collection if they are missing
// and makes sure the collection is loaded.
func (m *MilvusStore) EnsureReady(ctx context.Context) error {
	if err := m.ensureDatabase(ctx); err != nil {
		return err
	}

	has, err := m.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(m.collection))
	if err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to check if collection exists: %v", err)
	}
	if !has {
		return m.createCollection(ctx)
	}

	collection, err := m.client.DescribeCollection(ctx, milvusclient.NewDescribeCollectionOption(m.collection))
	if err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to describe collection: %v", err)
	}
	if !collection.Loaded {
		if _, err := m.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(m.collection)); err != nil {
			return errors.Newf(errors.ErrVectorStoreInit, "failed to load collection: %v", err)
		}
	}
	return nil
}

func (m *MilvusStore) ensureDatabase(ctx context.Context) error {
	dbNames, err := m.client.ListDatabase(ctx, milvusclient.NewListDatabaseOption())
	if err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to list databases: %v", err)
	}

	for _, name := range dbNames {
		if strings.EqualFold(name, m.database) {
			return nil
		}
	}

	if err := m.client.CreateDatabase(ctx, milvusclient.NewCreateDatabaseOption(m.database)); err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to create database: %v", err)
	}

	g.Log().Infof(ctx, "Database '%s' created successfully", m.database)
	return nil
}

func (m *MilvusStore) createCollection(ctx context.Context) error {
	collSchema := &entity.Schema{
		CollectionName: m.collection,
		Description:    "Constitution chunks with their embeddings",
		AutoID:         false,
		Fields:         milvusModel.GetStandardCollectionFields(m.dimension),
	}

	err := m.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(m.collection, collSchema).WithIndexOptions(
		milvusclient.NewCreateIndexOption(m.collection, common.FieldContentVector, index.NewHNSWIndex(milvusMetric(m.metricType), 64, 128))))
	if err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to create Milvus collection: %v", err)
	}

	if _, err := m.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(m.collection)); err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to load Milvus collection: %v", err)
	}

	g.Log().Infof(ctx, "Collection '%s' created with dimension %d, index built and loaded", m.collection, m.dimension)
	return nil
}

// Exists reports whether the collection has been created.
func (m *MilvusStore) Exists(ctx context.Context) (bool, error) {
	has, err := m.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(m.collection))
	if err != nil {
		return false, errors.Newf(errors.ErrOperationFailed, "failed to check if collection exists: %v", err)
	}
	return has, nil
}

// InsertVectors inserts chunks column-wise.
func (m *MilvusStore) InsertVectors(ctx context.Context, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, errors.Newf(errors.ErrVectorInsert, "chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	metadataList := make([][]byte, len(chunks))

	for idx, chunk := range chunks {
		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID
		texts[idx] = common.TruncateString(chunk.Content, 65535)

		metaBytes, err := marshalMetadata(chunk.MetaData)
		if err != nil {
			return nil, errors.Newf(errors.ErrVectorInsert, "failed to marshal metadata: %v", err)
		}
		metadataList[idx] = metaBytes
	}

	columns := []column.Column{
		column.NewColumnVarChar("id", ids),
		column.NewColumnVarChar(common.FieldContent, texts),
		column.NewColumnFloatVector(common.FieldContentVector, m.dimension, vectors),
		column.NewColumnJSONBytes(common.FieldMetadata, metadataList),
	}

	insertOpt := milvusclient.NewColumnBasedInsertOption(m.collection, columns...)
	result, err := m.client.Insert(ctx, insertOpt)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorInsert, "failed to insert vectors: %v", err)
	}

	g.Log().Infof(ctx, "Successfully inserted %d vectors into collection '%s'", result.InsertCount, m.collection)
	return ids, nil
}

// Search runs an ANN search and converts the result columns back into
// documents.
func (m *MilvusStore) Search(ctx context.Context, queryVector []float32, topK int) ([]*schema.Document, error) {
	searchOpt := milvusclient.NewSearchOption(m.collection, topK, []entity.Vector{entity.FloatVector(queryVector)}).
		WithANNSField(common.FieldContentVector).
		WithOutputFields("id", common.FieldContent, common.FieldMetadata).
		WithConsistencyLevel(entity.ClBounded)

	results, err := m.client.Search(ctx, searchOpt)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorSearch, "search has error: %v", err)
	}

	if len(results) == 0 {
		return []*schema.Document{}, nil
	}

	return m.convertResultsToDocuments(ctx, results[0].Fields, results[0].Scores)
}

// convertResultsToDocuments maps search result columns onto documents.
func (m *MilvusStore) convertResultsToDocuments(ctx context.Context, columns []column.Column, scores []float32) ([]*schema.Document, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	numDocs := columns[0].Len()
	result := make([]*schema.Document, numDocs)
	for i := range result {
		result[i] = &schema.Document{
			MetaData: make(map[string]any),
		}
	}

	for i := 0; i < numDocs && i < len(scores); i++ {
		result[i].Score = m.normalizeScore(scores[i])
	}

	for _, col := range columns {
		switch col.Name() {
		case "id":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, errors.Newf(errors.ErrVectorSearch, "failed to get id: %v", err)
				}
				if str, ok := val.(string); ok {
					result[i].ID = str
				}
			}
		case common.FieldContent:
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, errors.Newf(errors.ErrVectorSearch, "failed to get content: %v", err)
				}
				if str, ok := val.(string); ok {
					result[i].Content = str
				}
			}
		case common.FieldMetadata:
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil || val == nil {
					continue
				}
				switch v := val.(type) {
				case string:
					var metadata map[string]any
					if err := json.Unmarshal([]byte(v), &metadata); err == nil {
						for k, mv := range metadata {
							result[i].MetaData[k] = mv
						}
					}
				case []byte:
					var metadata map[string]any
					if err := json.Unmarshal(v, &metadata); err == nil {
						for k, mv := range metadata {
							result[i].MetaData[k] = mv
						}
					}
				}
			}
		default:
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					continue
				}
				result[i].MetaData[col.Name()] = val
			}
		}
	}

	return result, nil
}

// normalizeScore converts raw metric values to a similarity where
// higher is better, matching the pgvector score calculations.
func (m *MilvusStore) normalizeScore(raw float32) float32 {
	switch strings.ToUpper(m.metricType) {
	case "L2":
		return 1.0 / (1.0 + raw)
	default:
		// COSINE and IP scores are similarities already.
		return raw
	}
}

// Count queries the number of stored chunks.
func (m *MilvusStore) Count(ctx context.Context) (int64, error) {
	rs, err := m.client.Query(ctx, milvusclient.NewQueryOption(m.collection).
		WithOutputFields("count(*)").
		WithConsistencyLevel(entity.ClStrong))
	if err != nil {
		return 0, errors.Newf(errors.ErrOperationFailed, "failed to count collection rows: %v", err)
	}

	col := rs.GetColumn("count(*)")
	if col == nil || col.Len() == 0 {
		return 0, nil
	}
	count, err := col.GetAsInt64(0)
	if err != nil {
		return 0, errors.Newf(errors.ErrOperationFailed, "failed to read row count: %v", err)
	}
	return count, nil
}

// Load makes sure the collection is present and loaded for search.
func (m *MilvusStore) Load(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(m.collection))
	if err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to check if collection exists: %v", err)
	}
	if !has {
		return errors.Newf(errors.ErrIndexNotFound, "collection '%s' not found, build the index first", m.collection)
	}

	if _, err := m.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(m.collection)); err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to load collection: %v", err)
	}
	return nil
}

// Persist flushes buffered inserts to segment storage.
func (m *MilvusStore) Persist(ctx context.Context) error {
	if _, err := m.client.Flush(ctx, milvusclient.NewFlushOption(m.collection)); err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to flush collection: %v", err)
	}
	return nil
}

// Flush drops the collection entirely. Absent collections are fine.
func (m *MilvusStore) Flush(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(m.collection))
	if err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to check if collection exists: %v", err)
	}
	if !has {
		g.Log().Infof(ctx, "Collection '%s' does not exist, nothing to flush", m.collection)
		return nil
	}

	if err := m.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(m.collection)); err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to delete collection: %v", err)
	}
	g.Log().Infof(ctx, "Collection '%s' deleted", m.collection)
	return nil
}

// Stats reports collection presence and row count.
func (m *MilvusStore) Stats(ctx context.Context) (*IndexStats, error) {
	stats := &IndexStats{
		Location: fmt.Sprintf("milvus://%s/%s", m.database, m.collection),
	}

	exists, err := m.Exists(ctx)
	if err != nil {
		return nil, err
	}
	stats.Exists = exists
	if !exists {
		return stats, nil
	}

	count, err := m.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Count = count
	return stats, nil
}

// Close releases the client connection.
func (m *MilvusStore) Close(ctx context.Context) error {
	return m.client.Close(ctx)
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(metadata)
}

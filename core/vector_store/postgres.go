package vector_store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
	pgvectorModel "github.com/conlawai/conlaw/internal/model/pgvector"
	"github.com/conlawai/conlaw/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore keeps the chunk index in PostgreSQL with the pgvector
// extension.
type PostgresStore struct {
	pool       *pgxpool.Pool
	schemaName string
	table      string
	dimension  int
	metricType string
}

// NewPostgresStore connects to PostgreSQL and binds to the configured
// chunk table.
func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	if cfg.PgVector.DSN == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "pgvector.dsn is required but not found in config file")
	}

	g.Log().Infof(ctx, "Connecting to PostgreSQL for vector storage")

	pool, err := pgxpool.New(ctx, cfg.PgVector.DSN)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to create postgres connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to ping postgres: %v", err)
	}

	return &PostgresStore{
		pool:       pool,
		schemaName: "vectors",
		table:      common.SanitizeTableName(cfg.PgVector.Table),
		dimension:  cfg.Embedding.Dimension,
		metricType: cfg.VectorStore.MetricType,
	}, nil
}

func (p *PostgresStore) fullTableName() string {
	return fmt.Sprintf("%s.%s", p.schemaName, p.table)
}

// EnsureReady installs pgvector, creates the schema and the chunk
// table with its HNSW index.
func (p *PostgresStore) EnsureReady(ctx context.Context) error {
	var extensionExists bool
	err := p.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector')").Scan(&extensionExists)
	if err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to check pgvector extension: %v", err)
	}

	if !extensionExists {
		g.Log().Infof(ctx, "pgvector extension not found, attempting to create...")
		if _, err = p.pool.Exec(ctx, "CREATE EXTENSION vector"); err != nil {
			return errors.Newf(errors.ErrVectorStoreInit, "failed to create pgvector extension: %v. Please ensure pgvector is installed for your PostgreSQL version", err)
		}
		g.Log().Infof(ctx, "pgvector extension created successfully")
	}

	if _, err = p.pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", p.schemaName)); err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to create %s schema: %v", p.schemaName, err)
	}

	tableSchema := pgvectorModel.TableSchema{}

	createTableSQL := tableSchema.GenerateCreateTableSQL(p.schemaName, p.table, p.dimension)
	if _, err = p.pool.Exec(ctx, createTableSQL); err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to create table %s: %v", p.fullTableName(), err)
	}

	for _, indexSQL := range tableSchema.GenerateCreateIndexSQL(p.schemaName, p.table, p.metricType) {
		if _, err = p.pool.Exec(ctx, indexSQL); err != nil {
			return errors.Newf(errors.ErrVectorStoreInit, "failed to create index on table %s: %v", p.fullTableName(), err)
		}
	}

	g.Log().Infof(ctx, "Table '%s' ready with dimension %d", p.fullTableName(), p.dimension)
	return nil
}

// Exists reports whether the chunk table has been created.
func (p *PostgresStore) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2)",
		p.schemaName, p.table,
	).Scan(&exists)
	if err != nil {
		return false, errors.Newf(errors.ErrOperationFailed, "failed to check if table %s exists: %v", p.fullTableName(), err)
	}
	return exists, nil
}

// InsertVectors inserts all chunks inside one transaction.
func (p *PostgresStore) InsertVectors(ctx context.Context, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, errors.Newf(errors.ErrVectorInsert, "chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	ids := make([]string, len(chunks))

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorInsert, "failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	insertSQL := fmt.Sprintf(`
		INSERT INTO %s (id, text, vector, metadata)
		VALUES ($1, $2, $3, $4)
	`, p.fullTableName())

	for idx, chunk := range chunks {
		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID

		text := common.TruncateString(chunk.Content, 65535)
		pgVector := pgvector.NewVector(vectors[idx])

		metaBytes, err := marshalMetadata(chunk.MetaData)
		if err != nil {
			return nil, errors.Newf(errors.ErrVectorInsert, "failed to marshal metadata: %v", err)
		}

		if _, err = tx.Exec(ctx, insertSQL, chunk.ID, text, pgVector, metaBytes); err != nil {
			return nil, errors.Newf(errors.ErrVectorInsert, "failed to insert vector for chunk %s: %v", chunk.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Newf(errors.ErrVectorInsert, "failed to commit transaction: %v", err)
	}

	g.Log().Infof(ctx, "Successfully inserted %d vectors into table '%s'", len(chunks), p.fullTableName())
	return ids, nil
}

// Search runs a similarity query ordered by the configured metric.
func (p *PostgresStore) Search(ctx context.Context, queryVector []float32, topK int) ([]*schema.Document, error) {
	pgVector := pgvector.NewVector(queryVector)

	// Pick the pgvector operator and score conversion per metric.
	var scoreCalc, orderBy string
	switch strings.ToUpper(p.metricType) {
	case "L2":
		scoreCalc = "1 / (1 + (vector <-> $1))"
		orderBy = "vector <-> $1"
	case "IP", "INNER_PRODUCT":
		// <#> returns the negated inner product.
		scoreCalc = "(vector <#> $1) * -1"
		orderBy = "vector <#> $1"
	default: // COSINE
		scoreCalc = "1 - (vector <=> $1)"
		orderBy = "vector <=> $1"
	}

	searchSQL := fmt.Sprintf(`
		SELECT id, text, metadata,
		       %s as similarity_score
		FROM %s
		ORDER BY %s
		LIMIT $2
	`, scoreCalc, p.fullTableName(), orderBy)

	rows, err := p.pool.Query(ctx, searchSQL, pgVector, topK)
	if err != nil {
		return nil, errors.Newf(errors.ErrVectorSearch, "failed to execute vector search: %v", err)
	}
	defer rows.Close()

	var results []*schema.Document
	for rows.Next() {
		var id, text string
		var metadataBytes []byte
		var score float64

		if err := rows.Scan(&id, &text, &metadataBytes, &score); err != nil {
			return nil, errors.Newf(errors.ErrVectorSearch, "failed to scan row: %v", err)
		}

		doc := &schema.Document{
			ID:       id,
			Content:  text,
			MetaData: make(map[string]any),
			Score:    float32(score),
		}

		if len(metadataBytes) > 0 {
			var metadata map[string]any
			if err := json.Unmarshal(metadataBytes, &metadata); err == nil {
				for k, v := range metadata {
					doc.MetaData[k] = v
				}
			}
		}

		results = append(results, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Newf(errors.ErrVectorSearch, "error iterating over rows: %v", err)
	}

	return results, nil
}

// Count returns the number of stored chunks.
func (p *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", p.fullTableName())).Scan(&count)
	if err != nil {
		return 0, errors.Newf(errors.ErrOperationFailed, "failed to count table rows: %v", err)
	}
	return count, nil
}

// Load verifies the chunk table is present.
func (p *PostgresStore) Load(ctx context.Context) error {
	exists, err := p.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Newf(errors.ErrIndexNotFound, "table '%s' not found, build the index first", p.fullTableName())
	}
	return nil
}

// Persist is a no-op, committed transactions are already durable.
func (p *PostgresStore) Persist(ctx context.Context) error {
	return nil
}

// Flush drops the chunk table. A missing table is fine.
func (p *PostgresStore) Flush(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", p.fullTableName())); err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to drop table %s: %v", p.fullTableName(), err)
	}
	g.Log().Infof(ctx, "Table '%s' deleted", p.fullTableName())
	return nil
}

// Stats reports table presence and row count.
func (p *PostgresStore) Stats(ctx context.Context) (*IndexStats, error) {
	stats := &IndexStats{
		Location: fmt.Sprintf("postgres://%s", p.fullTableName()),
	}

	exists, err := p.Exists(ctx)
	if err != nil {
		return nil, err
	}
	stats.Exists = exists
	if !exists {
		return stats, nil
	}

	count, err := p.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Count = count
	return stats, nil
}

// Close releases the connection pool.
func (p *PostgresStore) Close(ctx context.Context) error {
	p.pool.Close()
	return nil
}

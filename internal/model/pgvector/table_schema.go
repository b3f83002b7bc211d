package pgvector

import (
	"fmt"
	"strings"
)

// TableSchema is the layout of the chunk table in PostgreSQL with
// pgvector.
type TableSchema struct {
	// Id is the unique identifier for each chunk (primary key)
	Id string `pg:"id,varchar(255),primary_key"`

	// Text is the content of the chunk
	Text string `pg:"text,text"`

	// Vector is the embedding vector of the chunk
	Vector []float32 `pg:"vector,vector"`

	// Metadata stores chunk provenance as JSONB
	Metadata string `pg:"metadata,jsonb"`

	// CreatedAt is the timestamp when the chunk was inserted
	CreatedAt string `pg:"created_at,timestamp"`
}

// FieldDefinition represents a single field definition in PostgreSQL
type FieldDefinition struct {
	Name        string
	Type        string
	Nullable    bool
	Default     string
	PrimaryKey  bool
	Description string
}

// IndexDefinition represents an index definition in PostgreSQL
type IndexDefinition struct {
	Name        string
	Fields      []string
	IndexType   string // e.g., "btree", "hnsw"
	IndexOps    string // e.g., "vector_cosine_ops", empty for standard btree
	Description string
}

// GetFields returns the PostgreSQL field definitions for the chunk table.
func (TableSchema) GetFields(dim int) []FieldDefinition {
	return []FieldDefinition{
		{
			Name:        "id",
			Type:        "VARCHAR(255)",
			Nullable:    false,
			PrimaryKey:  true,
			Description: "Chunk unique ID (primary key)",
		},
		{
			Name:        "text",
			Type:        "TEXT",
			Nullable:    false,
			Description: "Chunk content",
		},
		{
			Name:        "vector",
			Type:        fmt.Sprintf("vector(%d)", dim),
			Nullable:    false,
			Description: "Chunk embedding vector",
		},
		{
			Name:        "metadata",
			Type:        "JSONB",
			Nullable:    false,
			Default:     "'{}'::jsonb",
			Description: "Chunk provenance (JSONB)",
		},
		{
			Name:        "created_at",
			Type:        "TIMESTAMP",
			Nullable:    false,
			Default:     "NOW()",
			Description: "Insertion timestamp",
		},
	}
}

// VectorIndexOps maps a metric type to the pgvector operator class the
// HNSW index must be built with.
func VectorIndexOps(metricType string) string {
	switch strings.ToUpper(metricType) {
	case "L2":
		return "vector_l2_ops"
	case "IP", "INNER_PRODUCT":
		return "vector_ip_ops"
	default:
		return "vector_cosine_ops"
	}
}

// GetIndexes returns the index definitions for the table.
func (TableSchema) GetIndexes(tableName, metricType string) []IndexDefinition {
	return []IndexDefinition{
		{
			Name:        fmt.Sprintf("%s_vector_idx", tableName),
			Fields:      []string{"vector"},
			IndexType:   "hnsw",
			IndexOps:    VectorIndexOps(metricType),
			Description: "HNSW index for fast vector similarity search",
		},
	}
}

// GenerateCreateTableSQL generates the CREATE TABLE SQL statement.
func (t TableSchema) GenerateCreateTableSQL(schemaName, tableName string, dim int) string {
	fields := t.GetFields(dim)
	fullTableName := fmt.Sprintf("%s.%s", schemaName, tableName)

	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n", fullTableName)

	for i, field := range fields {
		sql += fmt.Sprintf("    %s %s", field.Name, field.Type)

		if field.PrimaryKey {
			sql += " PRIMARY KEY"
		} else if !field.Nullable {
			sql += " NOT NULL"
		}

		if field.Default != "" && !field.PrimaryKey {
			sql += fmt.Sprintf(" DEFAULT %s", field.Default)
		}

		if i < len(fields)-1 {
			sql += ","
		}
		sql += "\n"
	}

	sql += ")"
	return sql
}

// GenerateCreateIndexSQL generates the CREATE INDEX SQL statements.
func (t TableSchema) GenerateCreateIndexSQL(schemaName, tableName, metricType string) []string {
	indexes := t.GetIndexes(tableName, metricType)
	fullTableName := fmt.Sprintf("%s.%s", schemaName, tableName)

	sqls := make([]string, len(indexes))
	for i, idx := range indexes {
		if idx.IndexType == "hnsw" && idx.IndexOps != "" {
			sqls[i] = fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS %s ON %s USING %s (%s %s)",
				idx.Name, fullTableName, idx.IndexType, idx.Fields[0], idx.IndexOps,
			)
		} else {
			sqls[i] = fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				idx.Name, fullTableName, idx.Fields[0],
			)
		}
	}

	return sqls
}

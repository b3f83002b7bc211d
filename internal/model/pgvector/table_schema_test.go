package pgvector

import (
	"strings"
	"testing"
)

func TestGenerateCreateTableSQL(t *testing.T) {
	sql := TableSchema{}.GenerateCreateTableSQL("vectors", "constitution_chunks", 1536)

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS vectors.constitution_chunks",
		"id VARCHAR(255) PRIMARY KEY",
		"vector vector(1536) NOT NULL",
		"metadata JSONB NOT NULL DEFAULT '{}'::jsonb",
		"created_at TIMESTAMP NOT NULL DEFAULT NOW()",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("CREATE TABLE SQL missing %q:\n%s", want, sql)
		}
	}
}

func TestVectorIndexOps(t *testing.T) {
	tests := []struct {
		metric   string
		expected string
	}{
		{"COSINE", "vector_cosine_ops"},
		{"cosine", "vector_cosine_ops"},
		{"L2", "vector_l2_ops"},
		{"IP", "vector_ip_ops"},
		{"INNER_PRODUCT", "vector_ip_ops"},
		{"", "vector_cosine_ops"},
	}
	for _, tt := range tests {
		if got := VectorIndexOps(tt.metric); got != tt.expected {
			t.Errorf("VectorIndexOps(%q) = %q, want %q", tt.metric, got, tt.expected)
		}
	}
}

func TestGenerateCreateIndexSQL(t *testing.T) {
	sqls := TableSchema{}.GenerateCreateIndexSQL("vectors", "constitution_chunks", "COSINE")
	if len(sqls) != 1 {
		t.Fatalf("expected 1 index statement, got %d", len(sqls))
	}
	if !strings.Contains(sqls[0], "USING hnsw (vector vector_cosine_ops)") {
		t.Errorf("index SQL should build an HNSW cosine index:\n%s", sqls[0])
	}
	if !strings.Contains(sqls[0], "constitution_chunks_vector_idx") {
		t.Errorf("index SQL should name the index after the table:\n%s", sqls[0])
	}
}

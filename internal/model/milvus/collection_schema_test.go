package milvus

import (
	"testing"

	"github.com/milvus-io/milvus/client/v2/entity"
)

func TestGetStandardCollectionFields(t *testing.T) {
	fields := GetStandardCollectionFields(1536)
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}

	byName := make(map[string]*entity.Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	id, ok := byName["id"]
	if !ok || !id.PrimaryKey || id.AutoID {
		t.Errorf("id field must be a non-auto primary key, got %+v", id)
	}

	vector, ok := byName["vector"]
	if !ok || vector.DataType != entity.FieldTypeFloatVector {
		t.Fatalf("vector field must be a float vector, got %+v", vector)
	}
	if vector.TypeParams["dim"] != "1536" {
		t.Errorf("vector dim = %q, want 1536", vector.TypeParams["dim"])
	}

	if meta, ok := byName["metadata"]; !ok || meta.DataType != entity.FieldTypeJSON {
		t.Errorf("metadata field must be JSON, got %+v", meta)
	}
}

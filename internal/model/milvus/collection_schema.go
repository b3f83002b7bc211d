package milvus

import (
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"
)

// CollectionSchema is the layout of the chunk collection in Milvus.
type CollectionSchema struct {
	// Id is the unique identifier for each chunk (primary key)
	Id string `milvus:"id,varchar,256,primary_key"`

	// Text is the content of the chunk
	Text string `milvus:"text,varchar,65535"`

	// Vector is the embedding vector of the chunk
	Vector []float32 `milvus:"vector,float_vector"`

	// Metadata stores chunk provenance as JSON
	Metadata string `milvus:"metadata,json"`
}

// GetFields returns the Milvus field definitions for the chunk collection.
func (CollectionSchema) GetFields(dim int) []*entity.Field {
	return []*entity.Field{
		{
			Name:        "id",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "256"},
			PrimaryKey:  true,
			AutoID:      false,
			Description: "Chunk unique ID (primary key)",
		},
		{
			Name:        "text",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "65535"},
			Description: "Chunk content",
		},
		{
			Name:        "vector",
			DataType:    entity.FieldTypeFloatVector,
			TypeParams:  map[string]string{"dim": fmt.Sprintf("%d", dim)},
			Description: "Chunk embedding vector",
		},
		{
			Name:        "metadata",
			DataType:    entity.FieldTypeJSON,
			Description: "Chunk provenance (JSON)",
		},
	}
}

// GetStandardCollectionFields is a helper to get the chunk collection fields.
func GetStandardCollectionFields(dim int) []*entity.Field {
	return CollectionSchema{}.GetFields(dim)
}

package common

// Vector store field names shared by the Milvus and pgvector backends.
const (
	FieldContent       = "text"
	FieldContentVector = "vector"
	FieldMetadata      = "metadata"
)

// Metadata keys attached to every chunk during ingestion.
const (
	MetaSource        = "source"
	MetaSectionType   = "section_type"
	MetaSectionName   = "section_name"
	MetaChunkId       = "chunk_id"
	MetaArticleNumber = "article_number"
	MetaPageNumber    = "page_number"
)

// Section types derived from corpus file names.
const (
	SectionTypePart     = "Part"
	SectionTypeSchedule = "Schedule"
	SectionTypePreamble = "Preamble"
)

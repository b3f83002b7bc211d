package errors

// ErrCode is the application error code type.
type ErrCode int

const (
	// General 1000-1999
	ErrInvalidParameter ErrCode = 1001 // bad request parameter
	ErrInternalError    ErrCode = 1002 // internal error
	ErrOperationFailed  ErrCode = 1003 // operation failed

	// Upstream model services 2000-2999
	ErrEmbeddingService   ErrCode = 2001 // embedding call failed
	ErrGeneration         ErrCode = 2002 // LLM call failed
	ErrUpstreamTimeout    ErrCode = 2003 // upstream deadline exceeded
	ErrModelNotConfigured ErrCode = 2004 // model missing from configuration

	// Corpus 3000-3999
	ErrSourceNotFound ErrCode = 3001 // source files missing
	ErrCorpusFetch    ErrCode = 3002 // corpus download failed

	// Index and vector store 5000-5999
	ErrIndexNotFound            ErrCode = 5001 // no persisted index
	ErrIndexCorrupt             ErrCode = 5002 // persisted index unreadable
	ErrUnsupportedConfiguration ErrCode = 5003 // unknown backend selected
	ErrVectorStoreInit          ErrCode = 5004 // vector store init failed
	ErrVectorSearch             ErrCode = 5005 // vector search failed
	ErrVectorInsert             ErrCode = 5006 // vector insert failed
)

// HTTPStatusCode maps an error code to the HTTP status it should be served with.
func (e ErrCode) HTTPStatusCode() int {
	switch {
	case e >= 1001 && e <= 1999:
		if e == ErrInvalidParameter {
			return 400
		}
		return 500
	case e >= 2000 && e <= 2999:
		if e == ErrUpstreamTimeout {
			return 504
		}
		return 500
	case e >= 3000 && e <= 3999:
		switch e {
		case ErrSourceNotFound:
			return 404
		case ErrCorpusFetch:
			return 502
		default:
			return 500
		}
	case e >= 5000 && e <= 5999:
		if e == ErrIndexNotFound {
			return 404
		}
		return 500
	default:
		return 500
	}
}

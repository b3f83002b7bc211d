package conlaw

import (
	"github.com/conlawai/conlaw/api/conlaw"
	"github.com/conlawai/conlaw/core/corpus"
	"github.com/conlawai/conlaw/internal/logic/index"
)

const (
	serviceName    = "Indian Constitution AI"
	serviceVersion = "2.0.0"
)

// ControllerV1 serves /api/v1 with the services wired at startup.
type ControllerV1 struct {
	manager *index.Manager
	fetcher *corpus.Fetcher
}

// NewV1 builds the controller over the given services.
func NewV1(manager *index.Manager, fetcher *corpus.Fetcher) conlaw.IConlawV1 {
	return &ControllerV1{
		manager: manager,
		fetcher: fetcher,
	}
}

package workflow

import (
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/service"
	domainwf "github.com/lucasaguiar-la/cotacao-geral/internal/domain/workflow"
)

// NewDefaultEngine creates an engine over the procurement transition table
func NewDefaultEngine(saver service.SaveService, opts ...EngineOption) ActionEngine {
	return NewEngine(domainwf.NewDefaultTable(), saver, opts...)
}

package orchestrator

import (
	"context"

	"github.com/personax/relkit/model"
	"github.com/personax/relkit/service/gitops"
	"github.com/personax/relkit/service/mutate"
	"github.com/personax/relkit/service/output"
	"github.com/personax/relkit/service/storage"
	"github.com/personax/relkit/service/verify"
	"github.com/personax/relkit/service/version"
)

// Service is the interface for the bump pipeline.
type Service interface {
	Run(ctx context.Context, cfg model.RunConfig) (model.BumpResult, error)
}

// Deps bundles the collaborating services. Storage may be nil when
// history recording is disabled.
type Deps struct {
	Version version.Service
	Mutate  mutate.Service
	Verify  verify.Service
	Git     gitops.Service
	Output  output.Service
	Storage storage.Service
	Confirm func(message string, def bool) bool
	Info    model.VersionInfo
}

type service struct {
	deps Deps
}

// NewService creates the pipeline service.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

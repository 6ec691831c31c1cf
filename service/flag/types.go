package flag

import "github.com/personax/relkit/model"

type service struct{}

// Service is the interface for the bump command flag parser.
type Service interface {
	ParseBumpFlags(args []string) (model.Flags, error)
}

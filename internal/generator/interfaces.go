package generator

import "github.com/toyz/splinter/internal/models"

// CodeGenerator turns discovered classes into generated source artifacts
type CodeGenerator interface {
	GenerateFactory(cc *models.ConstructibleClass) (*Artifact, error)
	GenerateMemberInjector(ic *models.InjectableClass) (*Artifact, error)
}

package registry

// DeclarationRegistry defines the interface for tracking custom annotation declarations across packages
type DeclarationRegistry interface {
	Register(decl *Declaration) error
	Get(qualifiedName string) (*Declaration, bool)
	Resolve(pkg string, imports map[string]string, reference string) (*Declaration, bool)
	Validate(pkg string, imports map[string]string, references []string) error
	List() []*Declaration
}

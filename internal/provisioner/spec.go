// Package provisioner creates search-engine indexes from definition files,
// tolerating transient failures and treating "already exists" as success.
package provisioner

import "path/filepath"

// IndexSpec names a search-engine index and the file holding its creation
// payload. Specs are constructed once at startup and never mutated.
type IndexSpec struct {
	// Name uniquely identifies the target index.
	Name string
	// DefinitionPath points at the JSON settings+mappings document.
	DefinitionPath string
}

// NewIndexSpec builds a spec for an index whose definition lives at
// <dataDir>/<name>_index.json.
func NewIndexSpec(dataDir, name string) IndexSpec {
	return IndexSpec{
		Name:           name,
		DefinitionPath: filepath.Join(dataDir, name+"_index.json"),
	}
}

// Outcome is the terminal result of provisioning one index.
type Outcome int

const (
	// OutcomeFailed means the index could not be created.
	OutcomeFailed Outcome = iota
	// OutcomeCreated means this run created the index.
	OutcomeCreated
	// OutcomeAlreadyExists means a prior run created the index. Treated as
	// success: provisioning is idempotent.
	OutcomeAlreadyExists
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

package sdk

import "fmt"

// Repository identifies a repository known to the Drone server by the owner
// and name under which it is registered.
type Repository struct {
	// Owner is the user or organization that owns the repository.
	Owner string `json:"owner"`
	// Name is the name of the repository, without the owner.
	Name string `json:"name"`
}

// FullName returns the repository's name qualified by its owner, e.g.
// "octocat/hello-world".
func (r Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

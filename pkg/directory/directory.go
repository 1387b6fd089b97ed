// pkg/directory/directory.go

package directory

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/attributes"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/config"
	cerr "github.com/cockroachdb/errors"
)

// Directory issues the administrative calls against a user directory. Each
// method maps onto exactly one remote request and never retries.
type Directory interface {
	// DescribeUserPool returns the pool's declared attribute schema.
	DescribeUserPool(ctx context.Context, poolID string) ([]attributes.SchemaAttribute, error)
	// CreateUser creates the user and returns its email attribute, which is
	// the username later calls must use.
	CreateUser(ctx context.Context, poolID, username string) (string, error)
	// UpdateUserAttributes sets the given attributes and returns the HTTP status code.
	UpdateUserAttributes(ctx context.Context, poolID, username string, attrs []attributes.Attribute) (int, error)
	// GetUser returns the raw attribute list of the user.
	GetUser(ctx context.Context, poolID, username string) ([]attributes.Attribute, error)
}

// New builds the back end selected by cfg.Provider.
func New(ctx context.Context, cfg *config.Config) (Directory, error) {
	switch cfg.Provider {
	case config.ProviderCognito, "":
		return NewCognito(ctx, cfg.Cognito)
	case config.ProviderKeycloak:
		return NewKeycloak(ctx, cfg.Keycloak)
	default:
		return nil, cerr.Newf("unsupported identity provider %q", cfg.Provider)
	}
}

// MutableAttributes fetches the pool schema and keeps the entries the
// directory allows to be updated. Nothing is cached between calls.
func MutableAttributes(ctx context.Context, dir Directory, poolID string) ([]attributes.SchemaAttribute, error) {
	schema, err := dir.DescribeUserPool(ctx, poolID)
	if err != nil {
		return nil, cerr.Wrapf(err, "fetch schema of pool %s", poolID)
	}
	return attributes.FilterMutable(schema), nil
}

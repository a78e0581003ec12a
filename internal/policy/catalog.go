package policy

import "github.com/spec-kit/fieldops-service/internal/domain"

// Catalog maps each role to its granted permission keys. Immutable after
// construction; loaded once at process start.
type Catalog map[domain.Role][]PermissionKey

// DefaultCatalog returns the built-in role grants. RoleUnknown deliberately
// has no entry, so unanticipated stored role values hold no capability.
func DefaultCatalog() Catalog {
	return Catalog{
		domain.RoleAdmin: {
			"*",
		},
		domain.RoleOfficeStaff: {
			"jobs:view",
			"jobs:create",
			"jobs:assign",
			"jobs:status:change",
			"jobs:tasks:*",
			"files:view",
			"files:manage",
			"client_hub:view",
			"client_hub:messages:post",
			"client_hub:manage_contacts",
			"contacts:manage",
		},
		domain.RoleTechnician: {
			"jobs:view:assigned",
			"jobs:status:change",
			"jobs:tasks:view",
			"jobs:tasks:checklist:toggle",
			"files:view",
		},
		domain.RoleClientContact: {
			"client_hub:messages:post",
		},
	}
}

// Validate checks every grant in the catalog against the grant grammar.
func (c Catalog) Validate() error {
	for role, grants := range c {
		for _, grant := range grants {
			if !grant.validGrant() {
				return &InvalidGrantError{Role: role, Grant: grant}
			}
		}
	}
	return nil
}

// InvalidGrantError reports a malformed catalog entry.
type InvalidGrantError struct {
	Role  domain.Role
	Grant PermissionKey
}

func (e *InvalidGrantError) Error() string {
	return "invalid permission grant " + string(e.Grant) + " for role " + string(e.Role)
}

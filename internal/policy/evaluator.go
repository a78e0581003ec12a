package policy

import "github.com/spec-kit/fieldops-service/internal/domain"

// Evaluator answers "may this actor perform this action" queries against a
// fixed catalog. Pure function of (actor, key, catalog): no caching, no side
// effects, safe to call concurrently on every request and render.
type Evaluator struct {
	catalog Catalog
}

// NewEvaluator builds an evaluator over the given catalog.
func NewEvaluator(catalog Catalog) *Evaluator {
	return &Evaluator{catalog: catalog}
}

// Allows reports whether the actor's role grants the permission key.
//
// Every failure mode is a plain false: malformed keys fail closed because the
// result gates UI actions and mutations, deactivated actors retain no
// capability beyond account:reactivate, and a role without a catalog entry
// (including RoleUnknown) simply has no permissions.
func (e *Evaluator) Allows(actor domain.Actor, key PermissionKey) bool {
	if !key.Valid() {
		return false
	}
	if !actor.Active && key != KeyAccountReactivate {
		return false
	}
	grants, ok := e.catalog[actor.Role]
	if !ok {
		return false
	}
	for _, grant := range grants {
		if grant.covers(key) {
			return true
		}
	}
	return false
}

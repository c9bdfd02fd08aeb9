package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rollcall-hq/rollcall/pkg/tenant"
)

// MaxChainDepth caps the supervisor walk regardless of tenant configuration,
// guarding against pathological directory data.
const MaxChainDepth = 10

// UserSource is the slice of the tenant directory the resolver needs.
type UserSource interface {
	GetUser(ctx context.Context, tenantID, userID string) (*tenant.User, error)
}

// Resolver walks supervisor chains to produce approver hierarchies.
type Resolver struct {
	users  UserSource
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by the given directory.
func NewResolver(users UserSource) *Resolver {
	return &Resolver{
		users:  users,
		logger: slog.Default().With("component", "approval.resolver"),
	}
}

// BuildHierarchy returns the ordered approver chain for the user: the direct
// supervisor first, then that supervisor's supervisor, up to levels entries.
// The chain stops early when a user has no supervisor, when the supervisor is
// not active, or when a cycle is detected. An empty chain is valid; such
// records are auto-approvable by an admin.
func (r *Resolver) BuildHierarchy(ctx context.Context, tenantID, userID string, levels int) ([]string, error) {
	if levels <= 0 {
		return nil, nil
	}
	if levels > MaxChainDepth {
		levels = MaxChainDepth
	}

	user, err := r.users.GetUser(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}

	seen := map[string]bool{userID: true}
	var chain []string
	current := user

	for len(chain) < levels {
		supervisorID := current.SupervisorID
		if supervisorID == "" {
			break
		}
		if seen[supervisorID] {
			r.logger.Warn("supervisor cycle detected, truncating approver chain",
				"tenant_id", tenantID,
				"user_id", userID,
				"at", supervisorID,
			)
			break
		}
		seen[supervisorID] = true

		supervisor, err := r.users.GetUser(ctx, tenantID, supervisorID)
		if err != nil {
			if errors.Is(err, tenant.ErrUserNotFound) {
				r.logger.Warn("dangling supervisor reference, truncating approver chain",
					"tenant_id", tenantID,
					"user_id", current.ID,
					"supervisor_id", supervisorID,
				)
				break
			}
			return nil, fmt.Errorf("load supervisor %s: %w", supervisorID, err)
		}
		if supervisor.Status != tenant.UserActive {
			// Inactive supervisors are skipped over, not appended.
			current = supervisor
			continue
		}

		chain = append(chain, supervisor.ID)
		current = supervisor
	}

	return chain, nil
}

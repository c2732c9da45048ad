package workflow

import (
	"context"
	"fmt"

	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
)

// Actor is the caller identity the access gate branches on: either one
// specific tenant, or a back-office administrator. An explicit variant
// instead of a sentinel tenant id, so the admin case cannot be forged by a
// numeric convention.
type Actor struct {
	admin    bool
	tenantId int
}

func AdminActor() Actor {
	return Actor{admin: true}
}

func TenantActor(tenantId int) Actor {
	return Actor{tenantId: tenantId}
}

// ActorFromContext reads the caller identity placed in the request context
// by the outer auth layer.
func ActorFromContext(ctx context.Context) Actor {
	if isAdmin, ok := utils.GetIsAdminFromContext(ctx); ok && isAdmin {
		return AdminActor()
	}
	tenantId, _ := utils.GetTenantIdFromContext(ctx)
	return TenantActor(tenantId)
}

func (a Actor) IsAdmin() bool { return a.admin }

func (a Actor) TenantId() int { return a.tenantId }

func (a Actor) String() string {
	if a.admin {
		return "administrator"
	}
	return fmt.Sprintf("tenant %d", a.tenantId)
}

// Authorize gates view/download access to a lease. A tenant must own the
// lease (ErrorUnauthorized otherwise) and the lease must have been sent to
// them (ErrorInvalidState otherwise); a cancelled lease stays viewable only
// when the cancellation happened after dispatch. Administrators bypass both
// checks and may preview at any stage.
func (e *LeaseEngine) Authorize(lease *models.LeaseAgreement, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.TenantId() != lease.TenantId {
		return fmt.Errorf("%w: lease %d belongs to another tenant", utils.ErrorUnauthorized, lease.ID)
	}
	if !wasDispatched(lease) {
		return fmt.Errorf("%w: lease %d has not been sent yet", utils.ErrorInvalidState, lease.ID)
	}
	return nil
}

// wasDispatched reports whether the tenant has actually received the lease.
// Status rank alone cannot answer this: Cancelled outranks Sent even when the
// lease was voided straight from Draft.
func wasDispatched(lease *models.LeaseAgreement) bool {
	if lease.Status == models.LeaseStatusCancelled {
		return lease.SentAt != nil
	}
	return lease.Status.AtLeast(models.LeaseStatusSent)
}

// authorizeForSigning is the signing-specific gate: terminal leases are never
// signable; tenants additionally need ownership and a dispatched lease, while
// administrators may sign anything that has at least been generated.
func (e *LeaseEngine) authorizeForSigning(lease *models.LeaseAgreement, actor Actor) error {
	if lease.Status.IsTerminal() {
		return fmt.Errorf("%w: lease is %s", utils.ErrorInvalidState, lease.Status)
	}
	if actor.IsAdmin() {
		if !lease.Status.AtLeast(models.LeaseStatusGenerated) {
			return fmt.Errorf("%w: not ready for signing", utils.ErrorInvalidState)
		}
		return nil
	}
	if actor.TenantId() != lease.TenantId {
		return fmt.Errorf("%w: lease %d belongs to another tenant", utils.ErrorUnauthorized, lease.ID)
	}
	if !lease.Status.AtLeast(models.LeaseStatusSent) {
		return fmt.Errorf("%w: not ready for signing", utils.ErrorInvalidState)
	}
	return nil
}

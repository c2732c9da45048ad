package workflow

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/roomledger/rentals_backend/config"
	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
	"github.com/sirupsen/logrus"
)

// CreateLease creates a draft lease for the outer CRUD layer. From the first
// render onward the lease is owned by this engine.
func (e *LeaseEngine) CreateLease(ctx context.Context, input *models.NewLeaseAgreement) (*models.LeaseAgreement, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: lease end date must be after start date", utils.ErrorValidationFailed)
	}
	if !input.RentAmount.IsPositive() {
		return nil, fmt.Errorf("%w: rent amount must be positive", utils.ErrorValidationFailed)
	}
	if _, err := e.Tenants.Get(ctx, input.TenantId); err != nil {
		return nil, err
	}
	if _, err := e.Rooms.Get(ctx, input.RoomId); err != nil {
		return nil, err
	}

	requiresSignature := true
	if input.RequiresSignature != nil {
		requiresSignature = *input.RequiresSignature
	}

	lease := &models.LeaseAgreement{
		TenantId:          input.TenantId,
		RoomId:            input.RoomId,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		RentAmount:        input.RentAmount,
		RentDueDay:        input.RentDueDay,
		Status:            models.LeaseStatusDraft,
		RequiresSignature: requiresSignature,
	}
	if err := e.Leases.Add(ctx, lease); err != nil {
		return nil, err
	}
	return lease, nil
}

// Render merges the lease data into a template, persists the HTML and the
// generated document, and advances a draft lease to Generated. templateId 0
// selects the current default template. Rendering is allowed at any stage;
// a lease already past Generated keeps its status while content and
// timestamps are refreshed.
//
// The returned warning is non-empty when the document came from a fallback
// tier of the generator.
func (e *LeaseEngine) Render(ctx context.Context, leaseId int, templateId int) (*models.LeaseAgreement, string, error) {
	lease, err := e.Leases.Get(ctx, leaseId)
	if err != nil {
		return nil, "", err
	}

	var template *models.LeaseTemplate
	if templateId > 0 {
		template, err = e.Templates.Get(ctx, templateId)
	} else {
		template, err = e.DefaultTemplate(ctx)
	}
	if err != nil {
		return nil, "", err
	}

	tenant, err := e.Tenants.Get(ctx, lease.TenantId)
	if err != nil {
		return nil, "", err
	}
	room, err := e.Rooms.Get(ctx, lease.RoomId)
	if err != nil {
		return nil, "", err
	}

	now := e.Now()
	variables := buildLeaseVariables(lease, tenant, room, now)
	html := ReplaceTokens(template.Body, variables)

	generatedAt := now.UTC()
	lease.Content = html
	lease.TemplateId = template.ID
	lease.GeneratedAt = &generatedAt
	if lease.Status.CanTransitionTo(models.LeaseStatusGenerated) {
		lease.Status = models.LeaseStatusGenerated
	}
	if err := e.Leases.Update(ctx, lease); err != nil {
		return nil, "", err
	}

	warning, err := e.generateDocument(ctx, lease, html, "")
	if err != nil {
		return nil, "", err
	}

	e.logger.WithFields(logrus.Fields{
		"module":   "leaseWorkflow",
		"leaseId":  lease.ID,
		"template": template.ID,
		"status":   lease.Status,
	}).Info("lease rendered")
	return lease, warning, nil
}

// Dispatch marks a rendered lease as sent to the tenant. Allowed from
// Generated or later; re-dispatch of an already sent lease only refreshes
// the sent timestamp.
func (e *LeaseEngine) Dispatch(ctx context.Context, leaseId int) (*models.LeaseAgreement, error) {
	lease, err := e.Leases.Get(ctx, leaseId)
	if err != nil {
		return nil, err
	}
	if !lease.Status.AtLeast(models.LeaseStatusGenerated) {
		return nil, fmt.Errorf("%w: lease must be generated before sending", utils.ErrorInvalidState)
	}
	if lease.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: lease is %s", utils.ErrorInvalidState, lease.Status)
	}

	sentAt := e.Now().UTC()
	lease.SentAt = &sentAt
	if lease.Status.CanTransitionTo(models.LeaseStatusSent) {
		lease.Status = models.LeaseStatusSent
	}
	if err := e.Leases.Update(ctx, lease); err != nil {
		return nil, err
	}

	// Delivery is best-effort; a notification failure must not roll back the
	// dispatch.
	if tenant, terr := e.Tenants.Get(ctx, lease.TenantId); terr == nil {
		if nerr := e.Notifier.LeaseSent(ctx, lease, tenant); nerr != nil {
			config.LogError(e.logger, "leaseWorkflow", "Dispatch", "notify", lease.ID, nerr)
		}
	}

	e.logger.WithFields(logrus.Fields{
		"module":  "leaseWorkflow",
		"leaseId": lease.ID,
		"status":  lease.Status,
	}).Info("lease dispatched")
	return lease, nil
}

// Close completes a signed lease. Called by the outer back office when the
// tenancy ends; the engine never completes a lease on its own.
func (e *LeaseEngine) Close(ctx context.Context, leaseId int) (*models.LeaseAgreement, error) {
	return e.transition(ctx, leaseId, models.LeaseStatusCompleted)
}

// Cancel voids a lease from any non-terminal state. Like Close, this is
// driven by the outer back office.
func (e *LeaseEngine) Cancel(ctx context.Context, leaseId int) (*models.LeaseAgreement, error) {
	return e.transition(ctx, leaseId, models.LeaseStatusCancelled)
}

func (e *LeaseEngine) transition(ctx context.Context, leaseId int, to models.LeaseStatus) (*models.LeaseAgreement, error) {
	lease, err := e.Leases.Get(ctx, leaseId)
	if err != nil {
		return nil, err
	}
	if !lease.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: cannot move lease from %s to %s", utils.ErrorInvalidState, lease.Status, to)
	}
	lease.Status = to
	if err := e.Leases.Update(ctx, lease); err != nil {
		return nil, err
	}
	return lease, nil
}

// generateDocument runs the document pipeline and stores the result under
// the lease path. pathSuffix distinguishes the signed regeneration.
func (e *LeaseEngine) generateDocument(ctx context.Context, lease *models.LeaseAgreement, html string, pathSuffix string) (string, error) {
	data, warning, err := e.Generator.Render(ctx, html)
	if err != nil {
		// Only reachable when every tier failed, which the minimal tier
		// makes practically impossible.
		return "", err
	}

	path := fmt.Sprintf("%s/lease_%d_%d%s.pdf", utils.StoragePathLeases, lease.ID, e.Now().UTC().Unix(), pathSuffix)
	if err := e.Storage.WriteBytes(ctx, path, data); err != nil {
		return "", fmt.Errorf("store lease document: %w", err)
	}

	lease.DocumentPath = path
	if err := e.Leases.Update(ctx, lease); err != nil {
		return "", err
	}
	return warning, nil
}

// Document returns the generated document bytes for an authorized actor.
func (e *LeaseEngine) Document(ctx context.Context, leaseId int, actor Actor) ([]byte, error) {
	lease, err := e.Leases.Get(ctx, leaseId)
	if err != nil {
		return nil, err
	}
	if err := e.Authorize(lease, actor); err != nil {
		return nil, err
	}
	if lease.DocumentPath == "" {
		return nil, fmt.Errorf("%w: lease %d has no generated document", utils.ErrorRecordNotFound, lease.ID)
	}
	return e.Storage.ReadBytes(ctx, lease.DocumentPath)
}

// ReplaceTokens substitutes every {{Name}} occurrence with its formatted
// value. Tokens without a matching value are left untouched, and no HTML
// escaping is applied; templates are trusted admin content.
func ReplaceTokens(body string, variables map[string]string) string {
	replacements := make([]string, 0, len(variables)*2)
	for name, value := range variables {
		replacements = append(replacements, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(replacements...).Replace(body)
}

func buildLeaseVariables(lease *models.LeaseAgreement, tenant *models.Tenant, room *models.Room, now time.Time) map[string]string {
	return map[string]string{
		"TenantName":       tenant.Name,
		"TenantPhone":      utils.FormatPhoneForDisplay(tenant.Phone),
		"TenantEmail":      tenant.Email,
		"EmergencyContact": tenant.EmergencyContact(),

		"RoomNumber": room.Number,
		"RoomType":   room.Type,

		"StartDate":           lease.StartDate.Format("2 January 2006"),
		"EndDate":             lease.EndDate.Format("2 January 2006"),
		"LeaseDurationMonths": fmt.Sprint(utils.MonthsBetween(lease.StartDate, lease.EndDate)),
		"RentAmount":          utils.FormatMoney(lease.RentAmount),
		"RentDueDay":          utils.OrdinalDay(lease.RentDueDay),

		"GeneratedDate": now.Format("2 January 2006"),
		"GeneratedTime": now.Format("3:04 PM"),

		"OrganizationName":    envOrDefault("ORG_NAME", "RoomLedger Property Management"),
		"OrganizationAddress": envOrDefault("ORG_ADDRESS", "12 Kan Yeik Thar Road, Yangon"),
		"OrganizationPhone":   envOrDefault("ORG_PHONE", "+95 9 123 456 789"),
		"OrganizationEmail":   envOrDefault("ORG_EMAIL", "office@roomledger.example"),
	}
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

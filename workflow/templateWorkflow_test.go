package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
)

func TestCreateTemplateDefaultIsExclusive(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{
		Name: "First", Body: "{{TenantName}}", IsDefault: true,
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	second, err := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{
		Name: "Second", Body: "{{TenantName}}", IsDefault: true,
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	got, err := engine.DefaultTemplate(ctx)
	if err != nil {
		t.Fatalf("DefaultTemplate: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("default = %d, want %d", got.ID, second.ID)
	}
	firstReloaded, err := engine.GetTemplate(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if firstReloaded.IsDefault {
		t.Error("first template should have lost the default flag")
	}
}

func TestUpdateTemplateMovesDefault(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	first, _ := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{Name: "First", Body: "a", IsDefault: true})
	second, _ := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{Name: "Second", Body: "b"})

	if _, err := engine.UpdateTemplate(ctx, second.ID, &models.NewLeaseTemplate{
		Name: "Second", Body: "b", IsDefault: true,
	}); err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}

	got, err := engine.DefaultTemplate(ctx)
	if err != nil {
		t.Fatalf("DefaultTemplate: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("default = %d, want %d", got.ID, second.ID)
	}
	firstReloaded, _ := engine.GetTemplate(ctx, first.ID)
	if firstReloaded.IsDefault {
		t.Error("first template should have lost the default flag")
	}
}

func TestDefaultTemplateCreatesBuiltinOnFirstUse(t *testing.T) {
	engine, env := newTestEngine(t)
	ctx := context.Background()

	got, err := engine.DefaultTemplate(ctx)
	if err != nil {
		t.Fatalf("DefaultTemplate: %v", err)
	}
	if got.ID == 0 || !got.IsDefault || !got.IsActive {
		t.Errorf("built-in template not persisted properly: %+v", got)
	}

	// Second call resolves the same template instead of creating another.
	again, err := engine.DefaultTemplate(ctx)
	if err != nil {
		t.Fatalf("DefaultTemplate: %v", err)
	}
	if again.ID != got.ID {
		t.Errorf("second resolve = %d, want %d", again.ID, got.ID)
	}
	templates, _ := env.templates.ListActive(ctx)
	if len(templates) != 1 {
		t.Errorf("template count = %d, want 1", len(templates))
	}
}

func TestDeleteTemplate(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	template, _ := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{Name: "Temp", Body: "x"})
	if err := engine.DeleteTemplate(ctx, template.ID); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}
	if err := engine.DeleteTemplate(ctx, template.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("second delete: err = %v, want ErrorRecordNotFound", err)
	}
}

func TestInactiveTemplateIsNotListed(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{
		Name: "Retired", Body: "x", IsActive: utils.NewFalse(),
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	active, err := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{
		Name: "Current", Body: "y", IsActive: utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	templates, err := engine.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 1 || templates[0].ID != active.ID {
		t.Errorf("active templates = %+v, want only %d", templates, active.ID)
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{Name: "", Body: "x"}); !errors.Is(err, utils.ErrorValidationFailed) {
		t.Errorf("missing name: err = %v, want ErrorValidationFailed", err)
	}
	if _, err := engine.CreateTemplate(ctx, &models.NewLeaseTemplate{Name: "n", Body: ""}); !errors.Is(err, utils.ErrorValidationFailed) {
		t.Errorf("missing body: err = %v, want ErrorValidationFailed", err)
	}
}

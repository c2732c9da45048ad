package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/roomledger/rentals_backend/config"
	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
	"github.com/sirupsen/logrus"
)

// Template management. Exclusivity of the default flag is enforced by the
// store (clear-on-others inside the write transaction); the workflow layer
// adds input validation and the default-template cache.

const defaultTemplateCacheKey = "leaseTemplate:default"
const defaultTemplateCacheTTL = 12 * time.Hour

func (e *LeaseEngine) ListTemplates(ctx context.Context) ([]*models.LeaseTemplate, error) {
	return e.Templates.ListActive(ctx)
}

func (e *LeaseEngine) GetTemplate(ctx context.Context, id int) (*models.LeaseTemplate, error) {
	return e.Templates.Get(ctx, id)
}

func (e *LeaseEngine) CreateTemplate(ctx context.Context, input *models.NewLeaseTemplate) (*models.LeaseTemplate, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	template := &models.LeaseTemplate{
		Name:        input.Name,
		Body:        input.Body,
		Description: input.Description,
		IsActive:    isActive,
		IsDefault:   input.IsDefault,
	}
	if err := e.Templates.Add(ctx, template); err != nil {
		return nil, err
	}
	e.invalidateDefaultTemplateCache()

	e.logger.WithFields(logrus.Fields{
		"module":     "templateWorkflow",
		"templateId": template.ID,
		"isDefault":  template.IsDefault,
	}).Info("lease template created")
	return template, nil
}

func (e *LeaseEngine) UpdateTemplate(ctx context.Context, id int, input *models.NewLeaseTemplate) (*models.LeaseTemplate, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	template, err := e.Templates.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	template.Name = input.Name
	template.Body = input.Body
	template.Description = input.Description
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	template.IsDefault = input.IsDefault

	if err := e.Templates.Update(ctx, template); err != nil {
		return nil, err
	}
	e.invalidateDefaultTemplateCache()
	return template, nil
}

func (e *LeaseEngine) DeleteTemplate(ctx context.Context, id int) error {
	if err := e.Templates.Delete(ctx, id); err != nil {
		return err
	}
	e.invalidateDefaultTemplateCache()
	return nil
}

// DefaultTemplate resolves the current default, creating the built-in
// template on first use so rendering always has something to work with.
// The default's id is cached in redis (read-through, the database stays the
// source of truth); the engine works identically with redis absent.
func (e *LeaseEngine) DefaultTemplate(ctx context.Context) (*models.LeaseTemplate, error) {
	var cachedId int
	if found, err := config.GetRedisObject(defaultTemplateCacheKey, &cachedId); err == nil && found && cachedId > 0 {
		if template, err := e.Templates.Get(ctx, cachedId); err == nil && template.IsDefault && template.IsActive {
			return template, nil
		}
		// Stale cache entry; fall through to the database.
		e.invalidateDefaultTemplateCache()
	}

	template, err := e.Templates.Default(ctx)
	if errors.Is(err, utils.ErrorRecordNotFound) {
		template = models.BuiltinDefaultTemplate()
		if err := e.Templates.Add(ctx, template); err != nil {
			return nil, err
		}
		e.logger.WithFields(logrus.Fields{
			"module":     "templateWorkflow",
			"templateId": template.ID,
		}).Info("built-in default lease template created")
	} else if err != nil {
		return nil, err
	}

	if err := config.SetRedisObject(defaultTemplateCacheKey, template.ID, defaultTemplateCacheTTL); err != nil {
		config.LogError(e.logger, "templateWorkflow", "DefaultTemplate", "cache", template.ID, err)
	}
	return template, nil
}

func (e *LeaseEngine) invalidateDefaultTemplateCache() {
	if err := config.RemoveRedisKey(defaultTemplateCacheKey); err != nil {
		config.LogError(e.logger, "templateWorkflow", "invalidateDefaultTemplateCache", "cache", nil, err)
	}
}

package stageapi

import (
	"context"
	"fmt"

	"github.com/crowdstage/live/internal/models"
)

type sessionModulesResponse struct {
	Modules []models.SessionModule `json:"modules"`
}

type createModuleRequest struct {
	WorkspaceModuleID string `json:"workspace_module_id"`
}

// SessionModules lists all modules attached to a session, active one
// included.
func (c *Client) SessionModules(ctx context.Context, sessionID, bearer string) ([]models.SessionModule, error) {
	var resp sessionModulesResponse
	if err := c.GetJSON(ctx, fmt.Sprintf(SessionModulesEndpoint, sessionID), bearer, &resp); err != nil {
		return nil, fmt.Errorf("failed to list session modules: %w", err)
	}
	return resp.Modules, nil
}

// CreateSessionModule instantiates a library module into the session. The
// backend appends it to the end of the queue.
func (c *Client) CreateSessionModule(ctx context.Context, sessionID, bearer, workspaceModuleID string) (*models.SessionModule, error) {
	var created models.SessionModule
	req := createModuleRequest{WorkspaceModuleID: workspaceModuleID}
	if err := c.PostJSON(ctx, fmt.Sprintf(SessionModulesEndpoint, sessionID), bearer, req, &created); err != nil {
		return nil, fmt.Errorf("failed to create session module: %w", err)
	}
	return &created, nil
}

// DeleteSessionModule removes a module from the session. Idempotent on the
// backend side.
func (c *Client) DeleteSessionModule(ctx context.Context, sessionID, bearer, moduleID string) error {
	return c.Delete(ctx, fmt.Sprintf(SessionModuleEndpoint, sessionID, moduleID), bearer)
}

// ActivateSessionModule makes the given module the session's active one,
// demoting any previously active module back into the queue.
func (c *Client) ActivateSessionModule(ctx context.Context, sessionID, bearer, moduleID string) error {
	return c.PostJSON(ctx, fmt.Sprintf(ModuleActivateEndpoint, sessionID, moduleID), bearer, nil, nil)
}

// DeactivateSessionModule demotes the active module back into the queue.
func (c *Client) DeactivateSessionModule(ctx context.Context, sessionID, bearer, moduleID string) error {
	return c.PostJSON(ctx, fmt.Sprintf(ModuleDeactivateEndpoint, sessionID, moduleID), bearer, nil, nil)
}

package models

// ModuleType identifies which live view a module is wired to.
type ModuleType string

const (
	ModuleQuestions ModuleType = "questions"
	ModuleTimer     ModuleType = "timer"
)

// SupportedModuleType reports whether t has a live view. Only supported
// types may be added to a session from the library.
func SupportedModuleType(t ModuleType) bool {
	switch t {
	case ModuleQuestions, ModuleTimer:
		return true
	}
	return false
}

// SessionModule is one module attached to a session. At most one module per
// session has IsActive set; the active module is not part of the ordered
// queue, so Order is only meaningful (dense, zero-based) across the
// non-active modules.
type SessionModule struct {
	ID       string         `json:"id"`
	ModuleID string         `json:"module_id"`
	Order    int            `json:"order"`
	IsActive bool           `json:"is_active"`
	Type     ModuleType     `json:"type"`
	Name     string         `json:"name"`
	Config   map[string]any `json:"config"`
}

// WorkspaceModule is a reusable library template a SessionModule is
// instantiated from. Read-only from the session's perspective.
type WorkspaceModule struct {
	ID     string         `json:"id"`
	Type   ModuleType     `json:"type"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config"`
}

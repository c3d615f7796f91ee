package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/jsonschema-go/jsonschema"
)

// Debug routes expose registry internals for troubleshooting. They are
// mounted only when ENABLE_DEBUG is set.

type toolDebugInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Type        string             `json:"type"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

type registryDebugInfo struct {
	TotalTools      int                 `json:"total_tools"`
	ToolNames       []string            `json:"tool_names"`
	Categories      []string            `json:"categories"`
	ToolsByCategory map[string][]string `json:"tools_by_category"`
}

func (s *Server) handleDebugTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "toolName")
	tool, ok := s.registry.Get(name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("Tool '%s' not found", name),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, toolDebugInfo{
		Name:        tool.Name(),
		Description: tool.Description(),
		Category:    tool.Category(),
		Type:        fmt.Sprintf("%T", tool),
		InputSchema: tool.InputSchema(),
	})
}

func (s *Server) handleDebugRegistry(w http.ResponseWriter, _ *http.Request) {
	categories := s.registry.Categories()
	byCategory := make(map[string][]string, len(categories))
	for _, category := range categories {
		ts := s.registry.ByCategory(category)
		names := make([]string, len(ts))
		for i, t := range ts {
			names[i] = t.Name()
		}
		byCategory[category] = names
	}

	s.writeJSON(w, http.StatusOK, registryDebugInfo{
		TotalTools:      s.registry.Len(),
		ToolNames:       s.registry.Names(),
		Categories:      categories,
		ToolsByCategory: byCategory,
	})
}

package tools

import "fmt"

// Registry holds the tool set served by the API. Registration order is
// preserved: tool listings report tools in the order they were added.
type Registry struct {
	tools      map[string]Tool
	order      []Tool
	categories []string
	byCategory map[string][]Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:      make(map[string]Tool),
		byCategory: make(map[string][]Tool),
	}
}

// Register adds a tool. Names must be unique and non-empty.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool %T must define a name", t)
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}
	r.tools[name] = t
	r.order = append(r.order, t)

	category := t.Category()
	if _, seen := r.byCategory[category]; !seen {
		r.categories = append(r.categories, category)
	}
	r.byCategory[category] = append(r.byCategory[category], t)
	return nil
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, t := range r.order {
		names[i] = t.Name()
	}
	return names
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Categories returns category names in first-seen order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// ByCategory returns the tools registered under one category, in
// registration order.
func (r *Registry) ByCategory(category string) []Tool {
	ts := r.byCategory[category]
	out := make([]Tool, len(ts))
	copy(out, ts)
	return out
}

// Default builds the full student-facing tool set.
func Default() (*Registry, error) {
	r := NewRegistry()
	all := []Tool{
		NewListCourses(),
		NewGetCourse(),
		NewGetCourseProgress(),
		NewGetCourseUsers(),
		NewPreviewHTML(),
		NewListAnnouncements(),
		NewListAssignments(),
		NewGetAssignment(),
		NewGetAssignmentSubmission(),
		NewListEnrollments(),
		NewListQuizzes(),
		NewGetQuiz(),
		NewGetQuizSubmission(),
		NewListQuizSubmissions(),
		NewGetDiscussionTopic(),
		NewListDiscussionEntries(),
		NewListDiscussionTopics(),
		NewListEntryReplies(),
	}
	for _, t := range all {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

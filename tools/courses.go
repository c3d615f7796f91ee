package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lecternlabs/lectern/canvas"
)

// courseIncludes returns the course include set, dropping the syllabus body
// when the caller opted out of it.
func courseIncludes(includeSyllabus *bool) []string {
	if boolOrDefault(includeSyllabus, true) {
		return canvas.CourseIncludeAll
	}
	trimmed := make([]string, 0, len(canvas.CourseIncludeAll))
	for _, item := range canvas.CourseIncludeAll {
		if item != "syllabus_body" {
			trimmed = append(trimmed, item)
		}
	}
	return trimmed
}

// list_courses

type listCoursesTool struct{}

// NewListCourses returns the tool backing list_courses.
func NewListCourses() Tool { return listCoursesTool{} }

func (listCoursesTool) Name() string     { return "list_courses" }
func (listCoursesTool) Category() string { return "courses" }

func (listCoursesTool) Description() string {
	return "List all courses for the current user with comprehensive data. " +
		"Includes syllabus, grades, progress, permissions, and more. " +
		"Perfect for answering 'What courses am I taking?' or 'Show me my courses with grades.'"
}

func (listCoursesTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"enrollmentState": enumSchema(
			"Filter by enrollment state (default: active)",
			"active", "invited_or_pending", "completed", "all",
		),
		"state":           stringArraySchema("Filter by course workflow state (unpublished, available, completed, deleted)"),
		"homeroom":        booleanSchema("Only return homeroom courses"),
		"includeSyllabus": booleanSchema("Include the syllabus body in each course (default: true)"),
		"perPage":         integerSchema("Results per page"),
	})
}

type listCoursesArgs struct {
	EnrollmentState *string  `json:"enrollmentState"`
	State           []string `json:"state"`
	Homeroom        *bool    `json:"homeroom"`
	IncludeSyllabus *bool    `json:"includeSyllabus"`
	PerPage         *int     `json:"perPage"`
}

type courseList struct {
	Courses any `json:"courses"`
	Total   int `json:"total"`
}

func (listCoursesTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args listCoursesArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	enrollmentState := "active"
	if args.EnrollmentState != nil {
		valid := []string{"active", "invited_or_pending", "completed", "all"}
		if !contains(valid, *args.EnrollmentState) {
			return nil, argErrorf("enrollmentState must be one of: %s", strings.Join(valid, ", "))
		}
		enrollmentState = *args.EnrollmentState
	}

	perPage, err := call.resolvePerPage(args.PerPage)
	if err != nil {
		return nil, err
	}

	params := canvas.CourseListParams{
		Include:         courseIncludes(args.IncludeSyllabus),
		EnrollmentState: enrollmentState,
		State:           args.State,
		Homeroom:        args.Homeroom,
		PerPage:         perPage,
	}

	courses, err := call.Client().GetPaginated(ctx, "/courses", params.Values())
	if err != nil {
		return nil, err
	}

	return courseList{Courses: courses, Total: collectionSize(courses)}, nil
}

// get_course

type getCourseTool struct{}

// NewGetCourse returns the tool backing get_course.
func NewGetCourse() Tool { return getCourseTool{} }

func (getCourseTool) Name() string     { return "get_course" }
func (getCourseTool) Category() string { return "courses" }

func (getCourseTool) Description() string {
	return "Get detailed information about a specific course by ID. " +
		"Returns comprehensive data including syllabus, grades, progress, permissions, and settings. " +
		"Use this when student asks about a specific course."
}

func (getCourseTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId":        integerSchema("The Canvas course ID"),
		"includeSyllabus": booleanSchema("Include the syllabus body (default: true)"),
		"teacherLimit":    integerSchema("Maximum number of teacher enrollments to include"),
	}, "courseId")
}

type getCourseArgs struct {
	CourseID        *int  `json:"courseId"`
	IncludeSyllabus *bool `json:"includeSyllabus"`
	TeacherLimit    int   `json:"teacherLimit"`
}

type courseDetail struct {
	Course any `json:"course"`
}

func (getCourseTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args getCourseArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}

	params := canvas.SingleCourseParams{
		Include:      courseIncludes(args.IncludeSyllabus),
		TeacherLimit: args.TeacherLimit,
	}

	course, err := call.Client().Get(ctx, fmt.Sprintf("/courses/%d", courseID), params.Values())
	if err != nil {
		return nil, err
	}

	return courseDetail{Course: course}, nil
}

// get_course_progress

type getCourseProgressTool struct{}

// NewGetCourseProgress returns the tool backing get_course_progress.
func NewGetCourseProgress() Tool { return getCourseProgressTool{} }

func (getCourseProgressTool) Name() string     { return "get_course_progress" }
func (getCourseProgressTool) Category() string { return "courses" }

func (getCourseProgressTool) Description() string {
	return "Get the student's progress tracking for a specific course. " +
		"Shows how many requirements are completed, what's next, and completion status. " +
		"Use when student asks 'How am I doing in this course?' or 'What's my progress?'"
}

func (getCourseProgressTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId": integerSchema("The Canvas course ID"),
	}, "courseId")
}

type getCourseProgressArgs struct {
	CourseID *int `json:"courseId"`
}

type courseProgress struct {
	CourseID             int     `json:"courseId"`
	Progress             any     `json:"progress"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

func (getCourseProgressTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args getCourseProgressArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}

	progress, err := call.Client().Get(ctx, fmt.Sprintf("/courses/%d/users/self/progress", courseID), nil)
	if err != nil {
		return nil, err
	}

	progressMap, _ := progress.(map[string]any)
	requirementCount := numberField(progressMap, "requirement_count")
	completedCount := numberField(progressMap, "requirement_completed_count")

	completion := 0.0
	if requirementCount > 0 {
		completion = math.Round(completedCount/requirementCount*100*100) / 100
	}

	return courseProgress{
		CourseID:             courseID,
		Progress:             progress,
		CompletionPercentage: completion,
	}, nil
}

func numberField(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

// get_course_users

type getCourseUsersTool struct{}

// NewGetCourseUsers returns the tool backing get_course_users.
func NewGetCourseUsers() Tool { return getCourseUsersTool{} }

func (getCourseUsersTool) Name() string     { return "get_course_users" }
func (getCourseUsersTool) Category() string { return "courses" }

func (getCourseUsersTool) Description() string {
	return "List users in a specific course (typically classmates). " +
		"Returns names, avatars, and enrollment info based on course privacy settings. " +
		"Use when student asks 'Who is in my class?' or 'List my classmates.'"
}

func (getCourseUsersTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId":        integerSchema("The Canvas course ID"),
		"enrollmentType":  stringArraySchema("Filter by enrollment type (student, teacher, ta, observer, designer)"),
		"enrollmentState": stringArraySchema("Filter by enrollment state (active, invited, rejected, completed, inactive)"),
		"includeEmail":    booleanSchema("Include user email addresses (default: true)"),
		"includeAvatar":   booleanSchema("Include user avatar URLs (default: true)"),
		"perPage":         integerSchema("Results per page"),
	}, "courseId")
}

type getCourseUsersArgs struct {
	CourseID        *int     `json:"courseId"`
	EnrollmentType  []string `json:"enrollmentType"`
	EnrollmentState []string `json:"enrollmentState"`
	IncludeEmail    *bool    `json:"includeEmail"`
	IncludeAvatar   *bool    `json:"includeAvatar"`
	PerPage         *int     `json:"perPage"`
}

type courseUsers struct {
	CourseID int               `json:"courseId"`
	Users    any               `json:"users"`
	Total    int               `json:"total"`
	Filters  courseUserFilters `json:"filters"`
}

type courseUserFilters struct {
	EnrollmentType  []string `json:"enrollmentType"`
	EnrollmentState []string `json:"enrollmentState"`
}

func (getCourseUsersTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args getCourseUsersArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}

	enrollmentType := args.EnrollmentType
	if enrollmentType == nil {
		enrollmentType = []string{"student"}
	}
	validTypes := []string{"student", "teacher", "ta", "observer", "designer"}
	for _, t := range enrollmentType {
		if !contains(validTypes, t) {
			return nil, argErrorf("Invalid enrollment type '%s'. Must be one of: %s", t, strings.Join(validTypes, ", "))
		}
	}

	enrollmentState := args.EnrollmentState
	if enrollmentState == nil {
		enrollmentState = []string{"active"}
	}
	validStates := []string{"active", "invited", "rejected", "completed", "inactive"}
	for _, s := range enrollmentState {
		if !contains(validStates, s) {
			return nil, argErrorf("Invalid enrollment state '%s'. Must be one of: %s", s, strings.Join(validStates, ", "))
		}
	}

	perPage, err := call.resolvePerPage(args.PerPage)
	if err != nil {
		return nil, err
	}

	include := []string{"enrollments"}
	if boolOrDefault(args.IncludeEmail, true) {
		include = append(include, "email")
	}
	if boolOrDefault(args.IncludeAvatar, true) {
		include = append(include, "avatar_url")
	}

	params := canvas.CourseUserParams{
		EnrollmentType:  enrollmentType,
		EnrollmentState: enrollmentState,
		Include:         include,
		PerPage:         perPage,
	}

	users, err := call.Client().GetPaginated(ctx, fmt.Sprintf("/courses/%d/users", courseID), params.Values())
	if err != nil {
		return nil, err
	}

	return courseUsers{
		CourseID: courseID,
		Users:    users,
		Total:    collectionSize(users),
		Filters: courseUserFilters{
			EnrollmentType:  enrollmentType,
			EnrollmentState: enrollmentState,
		},
	}, nil
}

// preview_html

type previewHTMLTool struct{}

// NewPreviewHTML returns the tool backing preview_html.
func NewPreviewHTML() Tool { return previewHTMLTool{} }

func (previewHTMLTool) Name() string     { return "preview_html" }
func (previewHTMLTool) Category() string { return "courses" }

func (previewHTMLTool) Description() string {
	return "Preview HTML content with course context. " +
		"Renders HTML with course-specific links and styling. " +
		"Use when student wants to preview how HTML will look in the course."
}

func (previewHTMLTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId": integerSchema("The Canvas course ID"),
		"html":     stringSchema("The HTML content to preview"),
	}, "courseId", "html")
}

type previewHTMLArgs struct {
	CourseID *int    `json:"courseId"`
	HTML     *string `json:"html"`
}

type previewHTMLResult struct {
	CourseID     int    `json:"courseId"`
	HTML         any    `json:"html"`
	OriginalHTML string `json:"originalHtml"`
}

func (previewHTMLTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args previewHTMLArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}

	if args.HTML == nil {
		return nil, argErrorf("html is required")
	}
	if strings.TrimSpace(*args.HTML) == "" {
		return nil, argErrorf("html must be a non-empty string")
	}

	result, err := call.Client().Post(ctx, fmt.Sprintf("/courses/%d/preview_html", courseID), nil, map[string]string{"html": *args.HTML})
	if err != nil {
		return nil, err
	}

	// Canvas echoes the processed markup under "html"; fall back to the
	// input when the response omits it.
	var rendered any = *args.HTML
	if m, ok := result.(map[string]any); ok {
		if v, exists := m["html"]; exists {
			rendered = v
		}
	}

	return previewHTMLResult{
		CourseID:     courseID,
		HTML:         rendered,
		OriginalHTML: *args.HTML,
	}, nil
}

package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lecternlabs/lectern/canvas"
)

// submissionInclude is the full include set for a student's own submission.
var submissionInclude = []string{
	"submission_history",
	"submission_comments",
	"rubric_assessment",
	"full_rubric_assessment",
	"visibility",
	"course",
	"user",
}

// list_assignments

type listAssignmentsTool struct{}

// NewListAssignments returns the tool backing list_assignments.
func NewListAssignments() Tool { return listAssignmentsTool{} }

func (listAssignmentsTool) Name() string     { return "list_assignments" }
func (listAssignmentsTool) Category() string { return "assignments" }

func (listAssignmentsTool) Description() string {
	return "List all assignments for a specific course with comprehensive data. " +
		"Includes submission status, scores, due dates, and requirements. " +
		"Use when student asks 'What assignments do I have?' or 'Show my upcoming assignments for this course.'"
}

func (listAssignmentsTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId": integerSchema("The Canvas course ID"),
		"bucket": enumSchema(
			"Filter assignments by due date bucket",
			"past", "overdue", "undated", "ungraded", "unsubmitted", "upcoming", "future",
		),
		"searchTerm": stringSchema("Only return assignments whose name matches this term"),
		"orderBy": enumSchema(
			"Sort order for the results (default: due_at)",
			"position", "name", "due_at",
		),
		"perPage": integerSchema("Results per page"),
	}, "courseId")
}

type listAssignmentsArgs struct {
	CourseID   *int    `json:"courseId"`
	Bucket     *string `json:"bucket"`
	SearchTerm *string `json:"searchTerm"`
	OrderBy    *string `json:"orderBy"`
	PerPage    *int    `json:"perPage"`
}

type assignmentList struct {
	CourseID    int               `json:"courseId"`
	Assignments any               `json:"assignments"`
	Total       int               `json:"total"`
	Filters     assignmentFilters `json:"filters"`
}

type assignmentFilters struct {
	Bucket     *string `json:"bucket"`
	SearchTerm *string `json:"searchTerm"`
	OrderBy    string  `json:"orderBy"`
}

func (listAssignmentsTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args listAssignmentsArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}

	if args.Bucket != nil {
		validBuckets := []string{"past", "overdue", "undated", "ungraded", "unsubmitted", "upcoming", "future"}
		if !contains(validBuckets, *args.Bucket) {
			return nil, argErrorf("bucket must be one of: %s", strings.Join(validBuckets, ", "))
		}
	}

	orderBy := "due_at"
	if args.OrderBy != nil {
		validOrders := []string{"position", "name", "due_at"}
		if !contains(validOrders, *args.OrderBy) {
			return nil, argErrorf("orderBy must be one of: %s", strings.Join(validOrders, ", "))
		}
		orderBy = *args.OrderBy
	}

	perPage, err := call.resolvePerPage(args.PerPage)
	if err != nil {
		return nil, err
	}

	override := true
	params := canvas.AssignmentListParams{
		Include:                 canvas.AssignmentIncludeAll,
		Bucket:                  deref(args.Bucket),
		SearchTerm:              deref(args.SearchTerm),
		OrderBy:                 orderBy,
		OverrideAssignmentDates: &override,
		PerPage:                 perPage,
	}

	assignments, err := call.Client().GetPaginated(ctx, fmt.Sprintf("/courses/%d/assignments", courseID), params.Values())
	if err != nil {
		return nil, err
	}

	return assignmentList{
		CourseID:    courseID,
		Assignments: assignments,
		Total:       collectionSize(assignments),
		Filters: assignmentFilters{
			Bucket:     args.Bucket,
			SearchTerm: args.SearchTerm,
			OrderBy:    orderBy,
		},
	}, nil
}

// get_assignment

type getAssignmentTool struct{}

// NewGetAssignment returns the tool backing get_assignment.
func NewGetAssignment() Tool { return getAssignmentTool{} }

func (getAssignmentTool) Name() string     { return "get_assignment" }
func (getAssignmentTool) Category() string { return "assignments" }

func (getAssignmentTool) Description() string {
	return "Get detailed information about a specific assignment by ID. " +
		"Returns comprehensive data including submission status, rubric, scores, and requirements. " +
		"Use when student asks 'Tell me about this assignment' or 'What do I need to do for assignment X?'"
}

func (getAssignmentTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId":     integerSchema("The Canvas course ID"),
		"assignmentId": integerSchema("The Canvas assignment ID"),
	}, "courseId", "assignmentId")
}

type getAssignmentArgs struct {
	CourseID     *int `json:"courseId"`
	AssignmentID *int `json:"assignmentId"`
}

type assignmentDetail struct {
	CourseID     int `json:"courseId"`
	AssignmentID int `json:"assignmentId"`
	Assignment   any `json:"assignment"`
}

func (getAssignmentTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args getAssignmentArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}
	assignmentID, err := requireID("assignmentId", args.AssignmentID)
	if err != nil {
		return nil, err
	}

	override := true
	allDates := true
	params := canvas.SingleAssignmentParams{
		Include:                 canvas.AssignmentIncludeAll,
		OverrideAssignmentDates: &override,
		AllDates:                &allDates,
	}

	assignment, err := call.Client().Get(ctx, fmt.Sprintf("/courses/%d/assignments/%d", courseID, assignmentID), params.Values())
	if err != nil {
		return nil, err
	}

	return assignmentDetail{
		CourseID:     courseID,
		AssignmentID: assignmentID,
		Assignment:   assignment,
	}, nil
}

// get_assignment_submission

type getAssignmentSubmissionTool struct{}

// NewGetAssignmentSubmission returns the tool backing get_assignment_submission.
func NewGetAssignmentSubmission() Tool { return getAssignmentSubmissionTool{} }

func (getAssignmentSubmissionTool) Name() string     { return "get_assignment_submission" }
func (getAssignmentSubmissionTool) Category() string { return "assignments" }

func (getAssignmentSubmissionTool) Description() string {
	return "Get the student's submission for a specific assignment. " +
		"Returns submission status, grade, feedback, attachments, and rubric assessment. " +
		"Use when student asks 'What did I submit?' or 'What's my grade on this assignment?'"
}

func (getAssignmentSubmissionTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId":     integerSchema("The Canvas course ID"),
		"assignmentId": integerSchema("The Canvas assignment ID"),
	}, "courseId", "assignmentId")
}

type submissionDetail struct {
	CourseID     int `json:"courseId"`
	AssignmentID int `json:"assignmentId"`
	Submission   any `json:"submission"`
}

func (getAssignmentSubmissionTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args getAssignmentArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}
	assignmentID, err := requireID("assignmentId", args.AssignmentID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	for _, item := range submissionInclude {
		params.Add("include[]", item)
	}

	submission, err := call.Client().Get(ctx, fmt.Sprintf("/courses/%d/assignments/%d/submissions/self", courseID, assignmentID), params)
	if err != nil {
		return nil, err
	}

	return submissionDetail{
		CourseID:     courseID,
		AssignmentID: assignmentID,
		Submission:   submission,
	}, nil
}

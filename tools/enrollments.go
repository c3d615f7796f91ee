package tools

import (
	"context"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lecternlabs/lectern/canvas"
)

type listEnrollmentsTool struct{}

// NewListEnrollments returns the tool backing list_enrollments.
func NewListEnrollments() Tool { return listEnrollmentsTool{} }

func (listEnrollmentsTool) Name() string     { return "list_enrollments" }
func (listEnrollmentsTool) Category() string { return "enrollments" }

func (listEnrollmentsTool) Description() string {
	return "List all enrollments for the student with comprehensive grade information. " +
		"Returns current grades, final grades, scores, and points across all courses. " +
		"Use when student asks 'What are my grades?' or 'Show me all my course grades.'"
}

func (listEnrollmentsTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"state": stringArraySchema(
			"Filter by enrollment state (active, invited_or_pending, creation_pending, deleted, rejected, completed, inactive)",
		),
		"enrollmentType": stringArraySchema(
			"Filter by enrollment type (StudentEnrollment, TeacherEnrollment, TaEnrollment, DesignerEnrollment, ObserverEnrollment)",
		),
		"gradingPeriodId": integerSchema("Only return grades for this grading period"),
		"perPage":         integerSchema("Results per page"),
	})
}

type listEnrollmentsArgs struct {
	State           []string `json:"state"`
	EnrollmentType  []string `json:"enrollmentType"`
	GradingPeriodID *int     `json:"gradingPeriodId"`
	PerPage         *int     `json:"perPage"`
}

type enrollmentList struct {
	Enrollments any               `json:"enrollments"`
	Total       int               `json:"total"`
	Filters     enrollmentFilters `json:"filters"`
}

type enrollmentFilters struct {
	State           []string `json:"state"`
	EnrollmentType  []string `json:"enrollmentType"`
	GradingPeriodID *int     `json:"gradingPeriodId"`
}

func (listEnrollmentsTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args listEnrollmentsArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	state := args.State
	if state == nil {
		state = []string{"active"}
	}
	validStates := []string{"active", "invited_or_pending", "creation_pending", "deleted", "rejected", "completed", "inactive"}
	for _, s := range state {
		if !contains(validStates, s) {
			return nil, argErrorf("Invalid state '%s'. Must be one of: %s", s, strings.Join(validStates, ", "))
		}
	}

	enrollmentType := args.EnrollmentType
	if enrollmentType == nil {
		enrollmentType = []string{"StudentEnrollment"}
	}
	validTypes := []string{"StudentEnrollment", "TeacherEnrollment", "TaEnrollment", "DesignerEnrollment", "ObserverEnrollment"}
	for _, t := range enrollmentType {
		if !contains(validTypes, t) {
			return nil, argErrorf("Invalid enrollmentType '%s'. Must be one of: %s", t, strings.Join(validTypes, ", "))
		}
	}

	perPage, err := call.resolvePerPage(args.PerPage)
	if err != nil {
		return nil, err
	}

	gradingPeriodID := 0
	if args.GradingPeriodID != nil {
		gradingPeriodID = *args.GradingPeriodID
	}

	params := canvas.EnrollmentParams{
		State:           state,
		Type:            enrollmentType,
		Include:         canvas.EnrollmentIncludeAll,
		GradingPeriodID: gradingPeriodID,
		PerPage:         perPage,
	}

	enrollments, err := call.Client().GetPaginated(ctx, "/users/self/enrollments", params.Values())
	if err != nil {
		return nil, err
	}

	return enrollmentList{
		Enrollments: enrollments,
		Total:       collectionSize(enrollments),
		Filters: enrollmentFilters{
			State:           state,
			EnrollmentType:  enrollmentType,
			GradingPeriodID: args.GradingPeriodID,
		},
	}, nil
}

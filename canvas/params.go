package canvas

import (
	"net/url"
	"strconv"
)

// CourseIncludeAll lists every include[] value the course endpoints accept.
// Requesting all of them gives the richest course objects Canvas will return
// for the caller's permissions.
var CourseIncludeAll = []string{
	"syllabus_body",
	"term",
	"course_progress",
	"total_scores",
	"current_grading_period_scores",
	"grading_periods",
	"permissions",
	"sections",
	"favorites",
	"public_description",
	"total_students",
	"needs_grading_count",
	"account",
	"course_image",
	"banner_image",
	"concluded",
	"tabs",
	"passback_status",
	"observed_users",
}

// AssignmentIncludeAll lists the include[] values for assignment endpoints.
var AssignmentIncludeAll = []string{
	"submission",
	"assignment_visibility",
	"all_dates",
	"overrides",
	"observed_users",
	"can_edit",
	"score_statistics",
}

// QuizSubmissionIncludeAll lists the include[] values for quiz submission
// endpoints.
var QuizSubmissionIncludeAll = []string{
	"submission",
	"quiz",
	"user",
}

// EnrollmentIncludeAll lists the include[] values for enrollment endpoints.
var EnrollmentIncludeAll = []string{
	"avatar_url",
	"group_ids",
	"locked",
	"observed_users",
	"can_be_removed",
	"uuid",
	"current_points",
}

// CourseListParams builds query parameters for the course list endpoint.
// Zero values are skipped, so callers only send what they set.
type CourseListParams struct {
	Include         []string
	EnrollmentState string
	EnrollmentType  string
	State           []string
	Homeroom        *bool
	PerPage         int
}

func (p CourseListParams) Values() url.Values {
	v := url.Values{}
	addList(v, "include[]", p.Include)
	addString(v, "enrollment_state", p.EnrollmentState)
	addString(v, "enrollment_type", p.EnrollmentType)
	addList(v, "state[]", p.State)
	addBool(v, "homeroom", p.Homeroom)
	addInt(v, "per_page", p.PerPage)
	return v
}

// CourseUserParams builds query parameters for the course users endpoint.
type CourseUserParams struct {
	EnrollmentType  []string
	EnrollmentState []string
	Include         []string
	PerPage         int
}

func (p CourseUserParams) Values() url.Values {
	v := url.Values{}
	addList(v, "enrollment_type[]", p.EnrollmentType)
	addList(v, "enrollment_state[]", p.EnrollmentState)
	addList(v, "include[]", p.Include)
	addInt(v, "per_page", p.PerPage)
	return v
}

// SingleCourseParams builds query parameters for the course detail endpoint.
type SingleCourseParams struct {
	Include      []string
	TeacherLimit int
}

func (p SingleCourseParams) Values() url.Values {
	v := url.Values{}
	addList(v, "include[]", p.Include)
	addInt(v, "teacher_limit", p.TeacherLimit)
	return v
}

// AssignmentListParams builds query parameters for the assignment list
// endpoint.
type AssignmentListParams struct {
	Include                 []string
	Bucket                  string
	SearchTerm              string
	OrderBy                 string
	OverrideAssignmentDates *bool
	PerPage                 int
}

func (p AssignmentListParams) Values() url.Values {
	v := url.Values{}
	addList(v, "include[]", p.Include)
	addString(v, "bucket", p.Bucket)
	addString(v, "search_term", p.SearchTerm)
	addString(v, "order_by", p.OrderBy)
	addBool(v, "override_assignment_dates", p.OverrideAssignmentDates)
	addInt(v, "per_page", p.PerPage)
	return v
}

// SingleAssignmentParams builds query parameters for the assignment detail
// endpoint.
type SingleAssignmentParams struct {
	Include                 []string
	OverrideAssignmentDates *bool
	AllDates                *bool
}

func (p SingleAssignmentParams) Values() url.Values {
	v := url.Values{}
	addList(v, "include[]", p.Include)
	addBool(v, "override_assignment_dates", p.OverrideAssignmentDates)
	addBool(v, "all_dates", p.AllDates)
	return v
}

// QuizListParams builds query parameters for the quiz list endpoint.
type QuizListParams struct {
	SearchTerm string
	PerPage    int
}

func (p QuizListParams) Values() url.Values {
	v := url.Values{}
	addString(v, "search_term", p.SearchTerm)
	addInt(v, "per_page", p.PerPage)
	return v
}

// QuizSubmissionParams builds query parameters for quiz submission endpoints.
type QuizSubmissionParams struct {
	Include []string
}

func (p QuizSubmissionParams) Values() url.Values {
	v := url.Values{}
	addList(v, "include[]", p.Include)
	return v
}

// AnnouncementParams builds query parameters for the announcements endpoint.
// ContextCodes carries entries of the form "course_123".
type AnnouncementParams struct {
	ContextCodes []string
	StartDate    string
	EndDate      string
	ActiveOnly   *bool
	LatestOnly   *bool
	PerPage      int
}

func (p AnnouncementParams) Values() url.Values {
	v := url.Values{}
	addList(v, "context_codes[]", p.ContextCodes)
	addString(v, "start_date", p.StartDate)
	addString(v, "end_date", p.EndDate)
	addBool(v, "active_only", p.ActiveOnly)
	addBool(v, "latest_only", p.LatestOnly)
	addInt(v, "per_page", p.PerPage)
	return v
}

// EnrollmentParams builds query parameters for the user enrollments endpoint.
type EnrollmentParams struct {
	State           []string
	Type            []string
	Include         []string
	GradingPeriodID int
	PerPage         int
}

func (p EnrollmentParams) Values() url.Values {
	v := url.Values{}
	addList(v, "state[]", p.State)
	addList(v, "type[]", p.Type)
	addList(v, "include[]", p.Include)
	addInt(v, "grading_period_id", p.GradingPeriodID)
	addInt(v, "per_page", p.PerPage)
	return v
}

// DiscussionListParams builds query parameters for discussion topic listings.
type DiscussionListParams struct {
	PerPage int
}

func (p DiscussionListParams) Values() url.Values {
	v := url.Values{}
	addInt(v, "per_page", p.PerPage)
	return v
}

func addString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func addList(v url.Values, key string, values []string) {
	for _, value := range values {
		v.Add(key, value)
	}
}

func addBool(v url.Values, key string, value *bool) {
	if value != nil {
		v.Set(key, strconv.FormatBool(*value))
	}
}

func addInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}

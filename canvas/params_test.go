package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseListParams(t *testing.T) {
	homeroom := false
	v := CourseListParams{
		Include:         []string{"syllabus_body", "term"},
		EnrollmentState: "active",
		State:           []string{"available", "completed"},
		Homeroom:        &homeroom,
		PerPage:         50,
	}.Values()

	assert.Equal(t, []string{"syllabus_body", "term"}, v["include[]"])
	assert.Equal(t, "active", v.Get("enrollment_state"))
	assert.Equal(t, []string{"available", "completed"}, v["state[]"])
	assert.Equal(t, "false", v.Get("homeroom"))
	assert.Equal(t, "50", v.Get("per_page"))

	// Unset enrollment_type stays out of the query entirely.
	_, present := v["enrollment_type"]
	assert.False(t, present)
}

func TestCourseListParamsSkipsUnset(t *testing.T) {
	v := CourseListParams{}.Values()
	assert.Empty(t, v)
}

func TestSingleCourseParams(t *testing.T) {
	v := SingleCourseParams{Include: CourseIncludeAll, TeacherLimit: 5}.Values()
	assert.Len(t, v["include[]"], len(CourseIncludeAll))
	assert.Equal(t, "5", v.Get("teacher_limit"))

	v = SingleCourseParams{Include: CourseIncludeAll}.Values()
	_, present := v["teacher_limit"]
	assert.False(t, present)
}

func TestAssignmentListParams(t *testing.T) {
	override := true
	v := AssignmentListParams{
		Include:                 AssignmentIncludeAll,
		Bucket:                  "upcoming",
		SearchTerm:              "essay",
		OrderBy:                 "due_at",
		OverrideAssignmentDates: &override,
		PerPage:                 100,
	}.Values()

	assert.Equal(t, "upcoming", v.Get("bucket"))
	assert.Equal(t, "essay", v.Get("search_term"))
	assert.Equal(t, "due_at", v.Get("order_by"))
	assert.Equal(t, "true", v.Get("override_assignment_dates"))
	assert.Equal(t, "100", v.Get("per_page"))
}

func TestAnnouncementParams(t *testing.T) {
	active := true
	v := AnnouncementParams{
		ContextCodes: []string{"course_1", "course_2"},
		StartDate:    "2026-01-01",
		ActiveOnly:   &active,
		PerPage:      100,
	}.Values()

	assert.Equal(t, []string{"course_1", "course_2"}, v["context_codes[]"])
	assert.Equal(t, "2026-01-01", v.Get("start_date"))
	assert.Equal(t, "true", v.Get("active_only"))

	_, present := v["latest_only"]
	assert.False(t, present)
	_, present = v["end_date"]
	assert.False(t, present)
}

func TestEnrollmentParams(t *testing.T) {
	v := EnrollmentParams{
		State:           []string{"active"},
		Type:            []string{"StudentEnrollment"},
		Include:         EnrollmentIncludeAll,
		GradingPeriodID: 7,
		PerPage:         100,
	}.Values()

	assert.Equal(t, []string{"active"}, v["state[]"])
	assert.Equal(t, []string{"StudentEnrollment"}, v["type[]"])
	assert.Equal(t, "7", v.Get("grading_period_id"))
	assert.Len(t, v["include[]"], len(EnrollmentIncludeAll))
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lecternlabs/lectern/canvas"
)

type listAnnouncementsTool struct{}

// NewListAnnouncements returns the tool backing list_announcements.
func NewListAnnouncements() Tool { return listAnnouncementsTool{} }

func (listAnnouncementsTool) Name() string     { return "list_announcements" }
func (listAnnouncementsTool) Category() string { return "announcements" }

func (listAnnouncementsTool) Description() string {
	return "List announcements across one or more courses. " +
		"Returns title, message, dates, and course context. " +
		"Use when student asks 'What announcements do I have?' or 'Show me course announcements.'"
}

func (listAnnouncementsTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseIds":  integerArraySchema("Canvas course IDs to fetch announcements for"),
		"startDate":  stringSchema("Only return announcements posted on or after this date (ISO 8601)"),
		"endDate":    stringSchema("Only return announcements posted on or before this date (ISO 8601)"),
		"activeOnly": booleanSchema("Only return active announcements (default: true)"),
		"latestOnly": booleanSchema("Only return the most recent announcement per course"),
		"perPage":    integerSchema("Results per page"),
	}, "courseIds")
}

type listAnnouncementsArgs struct {
	CourseIDs  json.RawMessage `json:"courseIds"`
	StartDate  *string         `json:"startDate"`
	EndDate    *string         `json:"endDate"`
	ActiveOnly *bool           `json:"activeOnly"`
	LatestOnly *bool           `json:"latestOnly"`
	PerPage    *int            `json:"perPage"`
}

type announcementList struct {
	Announcements any                 `json:"announcements"`
	Total         int                 `json:"total"`
	CourseIDs     []int               `json:"courseIds"`
	Filters       announcementFilters `json:"filters"`
}

type announcementFilters struct {
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
	ActiveOnly bool    `json:"activeOnly"`
	LatestOnly *bool   `json:"latestOnly"`
}

// parseCourseIDs accepts only a non-empty JSON array of positive integers.
// Floats, strings, and nulls are rejected so a typo cannot silently query
// the wrong course.
func parseCourseIDs(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, argErrorf("courseIds is required")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, argErrorf("courseIds must be a non-empty list of course IDs")
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		var id int
		if err := json.Unmarshal(item, &id); err != nil || id <= 0 {
			return nil, argErrorf("All courseIds must be positive integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (listAnnouncementsTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args listAnnouncementsArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseIDs, err := parseCourseIDs(args.CourseIDs)
	if err != nil {
		return nil, err
	}

	perPage, err := call.resolvePerPage(args.PerPage)
	if err != nil {
		return nil, err
	}

	contextCodes := make([]string, len(courseIDs))
	for i, id := range courseIDs {
		contextCodes[i] = fmt.Sprintf("course_%d", id)
	}

	activeOnly := boolOrDefault(args.ActiveOnly, true)

	params := canvas.AnnouncementParams{
		ContextCodes: contextCodes,
		StartDate:    deref(args.StartDate),
		EndDate:      deref(args.EndDate),
		ActiveOnly:   &activeOnly,
		LatestOnly:   args.LatestOnly,
		PerPage:      perPage,
	}

	announcements, err := call.Client().GetPaginated(ctx, "/announcements", params.Values())
	if err != nil {
		return nil, err
	}

	return announcementList{
		Announcements: announcements,
		Total:         collectionSize(announcements),
		CourseIDs:     courseIDs,
		Filters: announcementFilters{
			StartDate:  args.StartDate,
			EndDate:    args.EndDate,
			ActiveOnly: activeOnly,
			LatestOnly: args.LatestOnly,
		},
	}, nil
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lecternlabs/lectern/canvas"
)

// The discussion tools accept their IDs as either a JSON string or an
// integer, matching what assistants actually send for these endpoints.

// parseFlexID renders a string-or-integer argument as the path segment to
// use. Floats, booleans, and nulls are rejected.
func parseFlexID(name string, raw json.RawMessage) (string, error) {
	if string(raw) == "null" {
		return "", argErrorf("%s must be str or int", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil && !strings.ContainsAny(n.String(), ".eE") {
		return n.String(), nil
	}
	return "", argErrorf("%s must be str or int", name)
}

func flexIDSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Types:       []string{"string", "integer"},
		Description: description,
	}
}

type discussionArgs struct {
	CourseID json.RawMessage `json:"course_id"`
	TopicID  json.RawMessage `json:"topic_id"`
	EntryID  json.RawMessage `json:"entry_id"`
}

// list_discussion_topics

type listDiscussionTopicsTool struct{}

// NewListDiscussionTopics returns the tool backing list_discussion_topics.
func NewListDiscussionTopics() Tool { return listDiscussionTopicsTool{} }

func (listDiscussionTopicsTool) Name() string     { return "list_discussion_topics" }
func (listDiscussionTopicsTool) Category() string { return "discussions" }

func (listDiscussionTopicsTool) Description() string {
	return "List all discussion topics for a Canvas course. " +
		"Returns basic metadata plus post status, unread state, etc."
}

func (listDiscussionTopicsTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"course_id": flexIDSchema("The Canvas course ID"),
	}, "course_id")
}

type discussionTopicList struct {
	DiscussionTopics any `json:"discussion_topics"`
	Total            int `json:"total"`
}

func (listDiscussionTopicsTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args discussionArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	if args.CourseID == nil {
		return nil, argErrorf("course_id is required")
	}
	courseID, err := parseFlexID("course_id", args.CourseID)
	if err != nil {
		return nil, err
	}

	params := canvas.DiscussionListParams{PerPage: 50}

	topics, err := call.Client().GetPaginated(ctx, fmt.Sprintf("/courses/%s/discussion_topics", courseID), params.Values())
	if err != nil {
		return nil, err
	}

	return discussionTopicList{DiscussionTopics: topics, Total: collectionSize(topics)}, nil
}

// get_discussion_topic

type getDiscussionTopicTool struct{}

// NewGetDiscussionTopic returns the tool backing get_discussion_topic.
func NewGetDiscussionTopic() Tool { return getDiscussionTopicTool{} }

func (getDiscussionTopicTool) Name() string     { return "get_discussion_topic" }
func (getDiscussionTopicTool) Category() string { return "discussions" }

func (getDiscussionTopicTool) Description() string {
	return "Get details of a specific Canvas discussion topic (title, body, metadata, etc)."
}

func (getDiscussionTopicTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"course_id": flexIDSchema("The Canvas course ID"),
		"topic_id":  flexIDSchema("The discussion topic ID"),
	}, "course_id", "topic_id")
}

type discussionTopicDetail struct {
	DiscussionTopic any `json:"discussion_topic"`
}

func (getDiscussionTopicTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args discussionArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	if args.CourseID == nil || args.TopicID == nil {
		return nil, argErrorf("course_id and topic_id are required")
	}
	courseID, err := parseFlexID("course_id", args.CourseID)
	if err != nil {
		return nil, err
	}
	topicID, err := parseFlexID("topic_id", args.TopicID)
	if err != nil {
		return nil, err
	}

	topic, err := call.Client().Get(ctx, fmt.Sprintf("/courses/%s/discussion_topics/%s", courseID, topicID), nil)
	if err != nil {
		return nil, err
	}

	return discussionTopicDetail{DiscussionTopic: topic}, nil
}

// list_discussion_entries

type listDiscussionEntriesTool struct{}

// NewListDiscussionEntries returns the tool backing list_discussion_entries.
func NewListDiscussionEntries() Tool { return listDiscussionEntriesTool{} }

func (listDiscussionEntriesTool) Name() string     { return "list_discussion_entries" }
func (listDiscussionEntriesTool) Category() string { return "discussions" }

func (listDiscussionEntriesTool) Description() string {
	return "List all top-level posts and replies in a discussion topic."
}

func (listDiscussionEntriesTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"course_id": flexIDSchema("The Canvas course ID"),
		"topic_id":  flexIDSchema("The discussion topic ID"),
	}, "course_id", "topic_id")
}

type discussionEntryList struct {
	DiscussionEntries any `json:"discussion_entries"`
	Total             int `json:"total"`
}

func (listDiscussionEntriesTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args discussionArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	if args.CourseID == nil || args.TopicID == nil {
		return nil, argErrorf("course_id and topic_id are required")
	}
	courseID, err := parseFlexID("course_id", args.CourseID)
	if err != nil {
		return nil, err
	}
	topicID, err := parseFlexID("topic_id", args.TopicID)
	if err != nil {
		return nil, err
	}

	entries, err := call.Client().GetPaginated(ctx, fmt.Sprintf("/courses/%s/discussion_topics/%s/entries", courseID, topicID), nil)
	if err != nil {
		return nil, err
	}

	return discussionEntryList{DiscussionEntries: entries, Total: collectionSize(entries)}, nil
}

// list_entry_replies

type listEntryRepliesTool struct{}

// NewListEntryReplies returns the tool backing list_entry_replies.
func NewListEntryReplies() Tool { return listEntryRepliesTool{} }

func (listEntryRepliesTool) Name() string     { return "list_entry_replies" }
func (listEntryRepliesTool) Category() string { return "discussions" }

func (listEntryRepliesTool) Description() string {
	return "Retrieve all replies to a top-level discussion entry in a topic, newest first."
}

func (listEntryRepliesTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"course_id": flexIDSchema("The Canvas course ID"),
		"topic_id":  flexIDSchema("The discussion topic ID"),
		"entry_id":  flexIDSchema("The top-level entry ID"),
	}, "course_id", "topic_id", "entry_id")
}

type entryReplyList struct {
	EntryReplies any `json:"entry_replies"`
	Total        int `json:"total"`
}

func (listEntryRepliesTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args discussionArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		raw  json.RawMessage
	}{
		{"course_id", args.CourseID},
		{"topic_id", args.TopicID},
		{"entry_id", args.EntryID},
	}

	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.raw == nil {
			return nil, argErrorf("%s is required", f.name)
		}
		id, err := parseFlexID(f.name, f.raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	replies, err := call.Client().GetPaginated(ctx, fmt.Sprintf("/courses/%s/discussion_topics/%s/entries/%s/replies", ids[0], ids[1], ids[2]), nil)
	if err != nil {
		return nil, err
	}

	return entryReplyList{EntryReplies: replies, Total: collectionSize(replies)}, nil
}

package tools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lecternlabs/lectern/canvas"
)

// list_quizzes

type listQuizzesTool struct{}

// NewListQuizzes returns the tool backing list_quizzes.
func NewListQuizzes() Tool { return listQuizzesTool{} }

func (listQuizzesTool) Name() string     { return "list_quizzes" }
func (listQuizzesTool) Category() string { return "quizzes" }

func (listQuizzesTool) Description() string {
	return "List all quizzes for a specific Canvas course. " +
		"Returns title, description, time limits, question count, points possible, and due dates. " +
		"Use when student asks 'What quizzes do I have?' or 'Show me quizzes for this course.'"
}

func (listQuizzesTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId":   integerSchema("The Canvas course ID"),
		"searchTerm": stringSchema("Only return quizzes whose title matches this term"),
		"perPage":    integerSchema("Results per page"),
	}, "courseId")
}

type listQuizzesArgs struct {
	CourseID   *int    `json:"courseId"`
	SearchTerm *string `json:"searchTerm"`
	PerPage    *int    `json:"perPage"`
}

type quizList struct {
	CourseID int         `json:"courseId"`
	Quizzes  any         `json:"quizzes"`
	Total    int         `json:"total"`
	Filters  quizFilters `json:"filters"`
}

type quizFilters struct {
	SearchTerm *string `json:"searchTerm"`
}

func (listQuizzesTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args listQuizzesArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}

	perPage, err := call.resolvePerPage(args.PerPage)
	if err != nil {
		return nil, err
	}

	params := canvas.QuizListParams{
		SearchTerm: deref(args.SearchTerm),
		PerPage:    perPage,
	}

	quizzes, err := call.Client().GetPaginated(ctx, fmt.Sprintf("/courses/%d/quizzes", courseID), params.Values())
	if err != nil {
		return nil, err
	}

	return quizList{
		CourseID: courseID,
		Quizzes:  quizzes,
		Total:    collectionSize(quizzes),
		Filters:  quizFilters{SearchTerm: args.SearchTerm},
	}, nil
}

// get_quiz

type getQuizTool struct{}

// NewGetQuiz returns the tool backing get_quiz.
func NewGetQuiz() Tool { return getQuizTool{} }

func (getQuizTool) Name() string     { return "get_quiz" }
func (getQuizTool) Category() string { return "quizzes" }

func (getQuizTool) Description() string {
	return "Get detailed information about a specific quiz by ID. " +
		"Returns comprehensive data including description, time limits, question count, points, due dates, and access restrictions. " +
		"Use when student asks 'Tell me about this quiz' or 'What's the format of quiz X?'"
}

func (getQuizTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId": integerSchema("The Canvas course ID"),
		"quizId":   integerSchema("The Canvas quiz ID"),
	}, "courseId", "quizId")
}

type quizIDArgs struct {
	CourseID *int `json:"courseId"`
	QuizID   *int `json:"quizId"`
}

type quizDetail struct {
	CourseID int `json:"courseId"`
	QuizID   int `json:"quizId"`
	Quiz     any `json:"quiz"`
}

func (getQuizTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args quizIDArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}
	quizID, err := requireID("quizId", args.QuizID)
	if err != nil {
		return nil, err
	}

	quiz, err := call.Client().Get(ctx, fmt.Sprintf("/courses/%d/quizzes/%d", courseID, quizID), nil)
	if err != nil {
		return nil, err
	}

	return quizDetail{CourseID: courseID, QuizID: quizID, Quiz: quiz}, nil
}

// get_quiz_submission

type getQuizSubmissionTool struct{}

// NewGetQuizSubmission returns the tool backing get_quiz_submission.
func NewGetQuizSubmission() Tool { return getQuizSubmissionTool{} }

func (getQuizSubmissionTool) Name() string     { return "get_quiz_submission" }
func (getQuizSubmissionTool) Category() string { return "quizzes" }

func (getQuizSubmissionTool) Description() string {
	return "Get the student's own submission for a specific quiz. " +
		"Returns submission status, score, attempt information, and time spent. " +
		"Use when student asks 'What did I get on this quiz?' or 'What's my quiz submission status?'"
}

func (getQuizSubmissionTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId": integerSchema("The Canvas course ID"),
		"quizId":   integerSchema("The Canvas quiz ID"),
	}, "courseId", "quizId")
}

type quizSubmissionDetail struct {
	CourseID   int `json:"courseId"`
	QuizID     int `json:"quizId"`
	Submission any `json:"submission"`
}

func (getQuizSubmissionTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args quizIDArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}
	quizID, err := requireID("quizId", args.QuizID)
	if err != nil {
		return nil, err
	}

	params := canvas.QuizSubmissionParams{Include: canvas.QuizSubmissionIncludeAll}

	submission, err := call.Client().Get(ctx, fmt.Sprintf("/courses/%d/quizzes/%d/submission", courseID, quizID), params.Values())
	if err != nil {
		return nil, err
	}

	return quizSubmissionDetail{CourseID: courseID, QuizID: quizID, Submission: submission}, nil
}

// list_quiz_submissions

type listQuizSubmissionsTool struct{}

// NewListQuizSubmissions returns the tool backing list_quiz_submissions.
func NewListQuizSubmissions() Tool { return listQuizSubmissionsTool{} }

func (listQuizSubmissionsTool) Name() string     { return "list_quiz_submissions" }
func (listQuizSubmissionsTool) Category() string { return "quizzes" }

func (listQuizSubmissionsTool) Description() string {
	return "List quiz submissions for a specific quiz. " +
		"Students will only see their own submissions. " +
		"Returns submission status, scores, and attempt information. " +
		"Use when student asks 'Show me my quiz attempts' or 'What are my quiz submissions?'"
}

func (listQuizSubmissionsTool) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"courseId": integerSchema("The Canvas course ID"),
		"quizId":   integerSchema("The Canvas quiz ID"),
	}, "courseId", "quizId")
}

type quizSubmissionList struct {
	CourseID    int `json:"courseId"`
	QuizID      int `json:"quizId"`
	Submissions any `json:"submissions"`
	Total       int `json:"total"`
}

func (listQuizSubmissionsTool) Execute(ctx context.Context, call *Context) (any, error) {
	var args quizIDArgs
	if err := decodeArgs(call.Args, &args); err != nil {
		return nil, err
	}

	courseID, err := requireID("courseId", args.CourseID)
	if err != nil {
		return nil, err
	}
	quizID, err := requireID("quizId", args.QuizID)
	if err != nil {
		return nil, err
	}

	params := canvas.QuizSubmissionParams{Include: canvas.QuizSubmissionIncludeAll}

	submissions, err := call.Client().GetPaginated(ctx, fmt.Sprintf("/courses/%d/quizzes/%d/submissions", courseID, quizID), params.Values())
	if err != nil {
		return nil, err
	}

	return quizSubmissionList{
		CourseID:    courseID,
		QuizID:      quizID,
		Submissions: submissions,
		Total:       collectionSize(submissions),
	}, nil
}

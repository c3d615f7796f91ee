package tools

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuizzes(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/3/quizzes", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":20,"title":"Midterm"}]`))
	})

	result, err := execTool(t, NewListQuizzes(), mux, `{"courseId":3,"searchTerm":"mid"}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"mid"}, query["search_term"])
	assert.Equal(t, []string{"100"}, query["per_page"])

	assert.JSONEq(t, `{
		"courseId":3,
		"quizzes":[{"id":20,"title":"Midterm"}],
		"total":1,
		"filters":{"searchTerm":"mid"}
	}`, toJSON(t, result))
}

func TestListQuizzesNoSearchTerm(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/3/quizzes", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	})

	result, err := execTool(t, NewListQuizzes(), mux, `{"courseId":3}`)
	require.NoError(t, err)

	assert.NotContains(t, query, "search_term")
	assert.JSONEq(t, `{"courseId":3,"quizzes":[],"total":0,"filters":{"searchTerm":null}}`, toJSON(t, result))
}

func TestGetQuiz(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/3/quizzes/20", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"id":20,"title":"Midterm","question_count":12}`))
	})

	result, err := execTool(t, NewGetQuiz(), mux, `{"courseId":3,"quizId":20}`)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"courseId":3,
		"quizId":20,
		"quiz":{"id":20,"title":"Midterm","question_count":12}
	}`, toJSON(t, result))
}

func TestGetQuizValidation(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{name: "missing quiz", args: `{"courseId":3}`, want: "quizId is required"},
		{name: "zero quiz", args: `{"courseId":3,"quizId":0}`, want: "quizId must be a positive integer"},
		{name: "missing course", args: `{"quizId":20}`, want: "courseId is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execToolOffline(t, NewGetQuiz(), tt.args)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestGetQuizSubmission(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/3/quizzes/20/submission", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"id":55,"score":10,"attempt":1}`))
	})

	result, err := execTool(t, NewGetQuizSubmission(), mux, `{"courseId":3,"quizId":20}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"submission", "quiz", "user"}, query["include[]"])
	assert.JSONEq(t, `{
		"courseId":3,
		"quizId":20,
		"submission":{"id":55,"score":10,"attempt":1}
	}`, toJSON(t, result))
}

func TestListQuizSubmissions(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/3/quizzes/20/submissions", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"quiz_submissions":[{"id":55}],"quizzes":[{"id":20}]}`))
	})

	result, err := execTool(t, NewListQuizSubmissions(), mux, `{"courseId":3,"quizId":20}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"submission", "quiz", "user"}, query["include[]"])

	// Canvas wraps quiz submissions in an object; it passes through with the
	// key count as the total.
	assert.JSONEq(t, `{
		"courseId":3,
		"quizId":20,
		"submissions":{"quiz_submissions":[{"id":55}],"quizzes":[{"id":20}]},
		"total":2
	}`, toJSON(t, result))
}

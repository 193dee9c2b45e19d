package models

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// implements the error interface so Validate() can return it directly
func (e *ErrorResponse) Error() string {
	return e.Message
}

// APIResponse is the generic success/failure envelope for CRUD endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// QuestionResponse carries a freshly generated question.
type QuestionResponse struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	IsFollowUp bool   `json:"isFollowUp"`
	RequestID  string `json:"requestId"`
}

// EvaluationResponse carries the scored answer.
type EvaluationResponse struct {
	QuestionID      string  `json:"questionId"`
	Score           float64 `json:"score"`
	Feedback        string  `json:"feedback"`
	SuggestFollowUp bool    `json:"suggestFollowUp"`
	RequestID       string  `json:"requestId"`
}

// TestCaseResult is the outcome of one sandboxed test-case run.
type TestCaseResult struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	Stderr   string `json:"stderr,omitempty"`
}

// ExecutionResult aggregates a full submission run.
type ExecutionResult struct {
	Passed      int              `json:"passed"`
	Total       int              `json:"total"`
	AllPassed   bool             `json:"allPassed"`
	CompileErr  string           `json:"compileError,omitempty"`
	TestResults []TestCaseResult `json:"testResults"`
}

// ToolCallResult is one entry in the voice platform's response envelope.
type ToolCallResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// ToolCallResponse is the envelope the voice platform expects. Always
// returned with HTTP 200; errors ride inside Result as a string.
type ToolCallResponse struct {
	Results []ToolCallResult `json:"results"`
}

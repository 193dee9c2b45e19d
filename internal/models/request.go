package models

import "strings"

// GenerateQuestionRequest asks for the next interview question.
type GenerateQuestionRequest struct {
	InterviewID string `json:"interviewId"`
	Category    string `json:"category,omitempty"`
	RequestID   string `json:"requestId,omitempty"`
}

// implements the Validator interface
func (r *GenerateQuestionRequest) Validate() error {
	if r.InterviewID == "" {
		return &ErrorResponse{
			Code:    "missing_interview_id",
			Message: "interviewId field is required",
		}
	}
	return nil
}

// EvaluateAnswerRequest submits a candidate answer for scoring.
type EvaluateAnswerRequest struct {
	InterviewID string `json:"interviewId"`
	QuestionID  string `json:"questionId"`
	Answer      string `json:"answer"`
	RequestID   string `json:"requestId,omitempty"`
}

func (r *EvaluateAnswerRequest) Validate() error {
	if r.InterviewID == "" {
		return &ErrorResponse{
			Code:    "missing_interview_id",
			Message: "interviewId field is required",
		}
	}
	if r.QuestionID == "" {
		return &ErrorResponse{
			Code:    "missing_question_id",
			Message: "questionId field is required",
		}
	}
	if strings.TrimSpace(r.Answer) == "" {
		return &ErrorResponse{
			Code:    "missing_answer",
			Message: "answer field is required",
		}
	}
	return nil
}

// ExecuteCodeRequest runs a coding submission against the problem's test cases.
type ExecuteCodeRequest struct {
	InterviewID string `json:"interviewId"`
	Code        string `json:"code"`
	Language    string `json:"language"`
}

func (r *ExecuteCodeRequest) Validate() error {
	if r.InterviewID == "" {
		return &ErrorResponse{
			Code:    "missing_interview_id",
			Message: "interviewId field is required",
		}
	}
	if r.Code == "" {
		return &ErrorResponse{
			Code:    "missing_code",
			Message: "code field is required",
		}
	}
	if r.Language == "" {
		return &ErrorResponse{
			Code:    "missing_language",
			Message: "language field is required",
		}
	}
	if !SupportedLanguages[strings.ToLower(r.Language)] {
		return &ErrorResponse{
			Code:    "unsupported_language",
			Message: "Language not supported. Supported languages: python, java, cpp, javascript, go",
		}
	}
	return nil
}

// UploadDocumentRequest carries raw resume text for condensing.
type UploadDocumentRequest struct {
	Kind     string `json:"kind"`
	FileName string `json:"fileName"`
	Text     string `json:"text"`
}

func (r *UploadDocumentRequest) Validate() error {
	if r.Text == "" {
		return &ErrorResponse{
			Code:    "missing_text",
			Message: "text field is required",
		}
	}
	if r.Kind == "" {
		r.Kind = "resume"
	}
	if r.Kind != "resume" && r.Kind != "cover_letter" {
		return &ErrorResponse{
			Code:    "invalid_kind",
			Message: "kind must be one of: resume, cover_letter",
		}
	}
	return nil
}

// CompanyIntelRequest asks for a scrape-and-summarize of a company page.
type CompanyIntelRequest struct {
	URL string `json:"url"`
}

func (r *CompanyIntelRequest) Validate() error {
	if r.URL == "" {
		return &ErrorResponse{
			Code:    "missing_url",
			Message: "url field is required",
		}
	}
	if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") {
		return &ErrorResponse{
			Code:    "invalid_url",
			Message: "url must start with http:// or https://",
		}
	}
	return nil
}

// CreateSessionRequest schedules a multi-round interview session.
type CreateSessionRequest struct {
	TargetRole    string               `json:"targetRole"`
	TargetCompany string               `json:"targetCompany"`
	Rounds        []CreateRoundRequest `json:"rounds"`
}

// CreateRoundRequest describes one round inside a session.
type CreateRoundRequest struct {
	RoundType       string `json:"roundType"`
	DurationMinutes int    `json:"durationMinutes"`
}

func (r *CreateSessionRequest) Validate() error {
	if len(r.Rounds) == 0 {
		return &ErrorResponse{
			Code:    "missing_rounds",
			Message: "at least one round is required",
		}
	}
	for i := range r.Rounds {
		round := &r.Rounds[i]
		if !ValidRoundTypes[RoundType(round.RoundType)] {
			return &ErrorResponse{
				Code:    "invalid_round_type",
				Message: "roundType must be one of: behavioral, technical, coding, system-design, hr",
			}
		}
		if round.DurationMinutes <= 0 {
			round.DurationMinutes = 30
		}
	}
	return nil
}

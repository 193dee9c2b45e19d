package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/0xteamMuffin/Hireability/internal/handlers"
	"github.com/0xteamMuffin/Hireability/internal/middleware"
	"github.com/0xteamMuffin/Hireability/internal/models"
)

// APIRoutes wires the authenticated product surface.
func APIRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	profileHandler *handlers.ProfileHandler,
	documentHandler *handlers.DocumentHandler,
	companyHandler *handlers.CompanyHandler,
	sessionHandler *handlers.SessionHandler,
	interviewHandler *handlers.InterviewHandler,
) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/profile", profileHandler.GetHandler)
		r.Put("/profile", profileHandler.PutHandler)

		r.With(middleware.ValidateRequest[*models.UploadDocumentRequest]()).
			Post("/documents", documentHandler.UploadHandler)
		r.Get("/documents", documentHandler.ListHandler)

		r.With(middleware.ValidateRequest[*models.CompanyIntelRequest]()).
			Post("/company/intel", companyHandler.IntelHandler)

		r.With(middleware.ValidateRequest[*models.CreateSessionRequest]()).
			Post("/sessions", sessionHandler.CreateHandler)
		r.Get("/sessions", sessionHandler.ListHandler)
		r.Get("/sessions/{id}", sessionHandler.GetHandler)

		r.Route("/interviews/{id}", func(r chi.Router) {
			r.Post("/start", interviewHandler.StartHandler)
			r.Post("/recover", interviewHandler.RecoverHandler)
			r.Get("/snapshot", interviewHandler.SnapshotHandler)
			r.Post("/phase", interviewHandler.SetPhaseHandler)
			r.Post("/problem", interviewHandler.ProblemHandler)
			r.Post("/hint", interviewHandler.HintHandler)
			r.Post("/complete", interviewHandler.CompleteHandler)
			r.Delete("/", interviewHandler.DeleteHandler)
		})
		r.With(middleware.ValidateRequest[*models.GenerateQuestionRequest]()).
			Post("/interviews/question", interviewHandler.QuestionHandler)
		r.With(middleware.ValidateRequest[*models.EvaluateAnswerRequest]()).
			Post("/interviews/answer", interviewHandler.AnswerHandler)
		r.With(middleware.ValidateRequest[*models.ExecuteCodeRequest]()).
			Post("/interviews/execute", interviewHandler.ExecuteHandler)
	})
}

// WSRoutes wires the realtime endpoint. The websocket handshake carries
// the token in the query string, so it skips the header middleware.
func WSRoutes(router *chi.Mux, wsHandler *handlers.WSHandler) {
	router.Get("/ws/interviews/{id}", wsHandler.InterviewWS)
}

// ToolRoutes wires the voice platform's webhook. Authenticated by a
// shared secret at the platform level, not by user JWTs.
func ToolRoutes(router *chi.Mux, toolHandler *handlers.ToolHandler) {
	router.Post("/api/v1/voice/tools", toolHandler.ToolCallHandler)
}

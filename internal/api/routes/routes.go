package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hirebridge/hirebridge/internal/api/handlers"
	"github.com/hirebridge/hirebridge/internal/api/middleware"
	"github.com/hirebridge/hirebridge/internal/models"
)

type Deps struct {
	Conversation *handlers.ConversationHandler
	Application  *handlers.ApplicationHandler
	Job          *handlers.JobHandler
	Profile      *handlers.ProfileHandler
	Document     *handlers.DocumentHandler
	Onboarding   *handlers.OnboardingHandler
	WS           *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	// Conversations
	auth.GET("/conversations", d.Conversation.List)
	auth.POST("/conversations", d.Conversation.Open)
	auth.GET("/conversations/:conversation_id/messages", d.Conversation.Messages)
	auth.POST("/conversations/:conversation_id/messages", d.Conversation.Send)
	auth.POST("/conversations/:conversation_id/read", d.Conversation.MarkRead)

	// Applications (seeker side)
	auth.POST("/applications", d.Application.Apply)
	auth.GET("/applications", d.Application.ListMine)
	auth.GET("/applications/:application_id", d.Application.Get)
	auth.POST("/applications/interview/accept", d.Application.AcceptInterview)
	auth.POST("/applications/interview/reject", d.Application.RejectInterview)
	auth.POST("/applications/:application_id/accept-offer", d.Application.AcceptOffer)
	auth.POST("/applications/:application_id/reject", d.Application.Reject)
	auth.POST("/applications/:application_id/reschedule", d.Application.RequestReschedule)
	auth.POST("/applications/:application_id/reschedule/cancel", d.Application.CancelReschedule)

	// Jobs (public browse, employer manage)
	auth.GET("/jobs", d.Job.Search)
	auth.GET("/jobs/recommended", d.Job.Recommend)
	auth.GET("/jobs/:job_id", d.Job.Get)

	employer := auth.Group("/")
	employer.Use(middleware.RequireRole(models.RoleEmployer, models.RoleAdmin))
	employer.POST("/company", d.Job.CreateCompany)
	employer.GET("/company/me", d.Job.MyCompany)
	employer.POST("/jobs", d.Job.PostJob)
	employer.GET("/jobs/mine/list", d.Job.MyJobs)
	employer.POST("/jobs/:job_id/close", d.Job.CloseJob)
	employer.GET("/jobs/:job_id/applications", d.Application.ListForJob)
	employer.POST("/interviews", d.Application.InviteInterview)
	employer.POST("/applications/:application_id/interview", d.Application.ScheduleInterview)
	employer.POST("/applications/:application_id/status", d.Application.SetStatus)

	// Onboarding assistant (employer-facing)
	employer.POST("/onboarding/start", d.Onboarding.Start)
	employer.GET("/onboarding/:session_id", d.Onboarding.Get)
	employer.POST("/onboarding/:session_id/chat", d.Onboarding.Chat)

	// Profile
	auth.GET("/profile/me", d.Profile.GetMe)
	auth.PUT("/profile", d.Profile.Upsert)

	// Documents
	auth.POST("/documents", d.Document.Upload)
	auth.GET("/documents", d.Document.ListMine)
	auth.GET("/documents/:document_id/url", d.Document.SignedURL)

	// Admin
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/documents", d.Document.ListAll)
	admin.POST("/documents/:document_id/verify", d.Document.SetVerification)

	// WebSocket
	auth.GET("/ws/conversations", d.WS.ConversationsWS)
}

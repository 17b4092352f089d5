package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/services"
	"github.com/hirebridge/hirebridge/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type applyRequest struct {
	JobID     string `json:"job_id"`
	CoverNote string `json:"cover_note"`
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Apply", "invalid json body", err))
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), userID, req.JobID, req.CoverNote)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": rows})
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForJob(c.Request.Context(), userID, c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": rows})
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	app, err := h.svc.Get(c.Request.Context(), userID, c.Param("application_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// refRequest carries either an application id or a direct interview id.
// Exactly one must be set; the handler resolves it into a tagged reference
// so the service never re-derives the kind.
type refRequest struct {
	ApplicationID string `json:"application_id"`
	InterviewID   string `json:"interview_id"`
	Reason        string `json:"reason"`
}

func (r refRequest) ref(op string) (models.ApplicationRef, error) {
	switch {
	case r.ApplicationID != "" && r.InterviewID != "":
		return models.ApplicationRef{}, utils.E(utils.CodeInvalidArgument, op, "set either application_id or interview_id, not both", nil)
	case r.ApplicationID != "":
		return models.ApplicationRef{Kind: models.RefApplication, ID: r.ApplicationID}, nil
	case r.InterviewID != "":
		return models.ApplicationRef{Kind: models.RefDirectInterview, ID: r.InterviewID}, nil
	default:
		return models.ApplicationRef{}, utils.E(utils.CodeInvalidArgument, op, "application_id or interview_id is required", nil)
	}
}

func (h *ApplicationHandler) AcceptInterview(c *gin.Context) {
	const op = "ApplicationHandler.AcceptInterview"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req refRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}
	ref, err := req.ref(op)
	if err != nil {
		writeError(c, err)
		return
	}

	app, err := h.svc.AcceptDirectInterview(c.Request.Context(), userID, ref)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) RejectInterview(c *gin.Context) {
	const op = "ApplicationHandler.RejectInterview"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req refRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}
	ref, err := req.ref(op)
	if err != nil {
		writeError(c, err)
		return
	}

	app, err := h.svc.RejectDirectInterview(c.Request.Context(), userID, ref, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) AcceptOffer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.AcceptOffer(c.Request.Context(), userID, c.Param("application_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type reasonRequest struct {
	Reason      string `json:"reason"`
	InterviewID string `json:"interview_id"`
}

func (h *ApplicationHandler) Reject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reasonRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.Reject(c.Request.Context(), userID, c.Param("application_id"), req.Reason); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ApplicationHandler) RequestReschedule(c *gin.Context) {
	const op = "ApplicationHandler.RequestReschedule"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}

	applicationID := c.Param("application_id")
	var err error
	if req.InterviewID != "" {
		err = h.svc.RequestReschedule(c.Request.Context(), userID, applicationID, req.InterviewID, req.Reason)
	} else {
		err = h.svc.RequestApplicationReschedule(c.Request.Context(), userID, applicationID, req.Reason)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ApplicationHandler) CancelReschedule(c *gin.Context) {
	const op = "ApplicationHandler.CancelReschedule"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}

	if err := h.svc.CancelRescheduleRequest(c.Request.Context(), userID, c.Param("application_id"), req.InterviewID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type scheduleInterviewRequest struct {
	At       time.Time `json:"at"`
	Format   string    `json:"format"`
	Location string    `json:"location"`
}

func (h *ApplicationHandler) ScheduleInterview(c *gin.Context) {
	const op = "ApplicationHandler.ScheduleInterview"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req scheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}

	iv, err := h.svc.ScheduleInterview(c.Request.Context(), userID, c.Param("application_id"), req.At, req.Format, req.Location)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, iv)
}

type inviteInterviewRequest struct {
	SeekerID string    `json:"seeker_id"`
	JobID    string    `json:"job_id"`
	At       time.Time `json:"at"`
	Format   string    `json:"format"`
	Location string    `json:"location"`
}

func (h *ApplicationHandler) InviteInterview(c *gin.Context) {
	const op = "ApplicationHandler.InviteInterview"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req inviteInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}

	iv, err := h.svc.InviteToInterview(c.Request.Context(), userID, req.SeekerID, req.JobID, req.At, req.Format, req.Location)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, iv)
}

type setStatusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	const op = "ApplicationHandler.SetStatus"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}

	if err := h.svc.SetStatus(c.Request.Context(), userID, c.Param("application_id"), req.Status); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/services"
	"github.com/hirebridge/hirebridge/internal/utils"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type createCompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

func (h *JobHandler) CreateCompany(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.CreateCompany", "invalid json body", err))
		return
	}

	co, err := h.svc.CreateCompany(c.Request.Context(), userID, req.Name, req.Description, req.Website)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, co)
}

func (h *JobHandler) MyCompany(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	co, err := h.svc.MyCompany(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, co)
}

func (h *JobHandler) PostJob(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.PostJob", "invalid json body", err))
		return
	}

	job, err := h.svc.PostJob(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) CloseJob(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.CloseJob(c.Request.Context(), userID, c.Param("job_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *JobHandler) MyJobs(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.MyJobs(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": rows})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Search(c *gin.Context) {
	f := models.JobSearchFilter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Limit:    50,
	}
	if s := c.Query("skills"); s != "" {
		for _, sk := range strings.Split(s, ",") {
			if sk = strings.TrimSpace(sk); sk != "" {
				f.Skills = append(f.Skills, sk)
			}
		}
	}
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			f.Limit = n
		}
	}

	rows, err := h.svc.Search(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": rows})
}

func (h *JobHandler) Recommend(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := 20
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	rows, err := h.svc.Recommend(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": rows})
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/services"
)

// ContactHandler handles public submission intake and admin review
type ContactHandler struct {
	contacts *services.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// SubmitRequest represents the public contact form body
type SubmitRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
	Company string `json:"company"`
}

// HandleSubmit accepts a public contact form submission
func (ch *ContactHandler) HandleSubmit(c *gin.Context) {
	var req SubmitRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := ch.contacts.Submit(c.Request.Context(), services.SubmitInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Company:   req.Company,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      sub.ID,
		"message": "Thank you for your message. We will get back to you soon.",
	})
}

// HandleStats returns public aggregate submission counts
func (ch *ContactHandler) HandleStats(c *gin.Context) {
	stats, err := ch.contacts.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// HandleList returns a page of submissions (admin)
func (ch *ContactHandler) HandleList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	subs, total, err := ch.contacts.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if subs == nil {
		subs = []*models.ContactSubmission{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": subs,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid submission id")
		return uuid.Nil, false
	}
	return id, true
}

// HandleGet returns a single submission (admin)
func (ch *ContactHandler) HandleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := ch.contacts.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": sub,
	})
}

// UpdateStatusRequest represents the status update body
type UpdateStatusRequest struct {
	Status models.SubmissionStatus `json:"status" binding:"required"`
}

// HandleUpdate changes a submission's review status (admin)
func (ch *ContactHandler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := ch.contacts.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  req.Status,
	})
}

// HandleDelete removes a submission (admin)
func (ch *ContactHandler) HandleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ch.contacts.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission deleted",
	})
}

// ReplyRequest represents the reply body
type ReplyRequest struct {
	Message string `json:"message" binding:"required"`
}

// HandleReply stores a reply and emails it to the submitter (admin)
func (ch *ContactHandler) HandleReply(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ReplyRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := ch.contacts.Reply(c.Request.Context(), id, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": sub,
	})
}

// HandleExportCSV streams all submissions as a CSV attachment (admin)
func (ch *ContactHandler) HandleExportCSV(c *gin.Context) {
	filename := "contact_submissions_" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := ch.contacts.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; log only
		_ = c.Error(err)
	}
}

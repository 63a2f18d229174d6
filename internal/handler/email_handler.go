package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bizsim/internal/models"
	"bizsim/internal/service"
)

// EmailHandler exposes the mail collaborator's inbox/outbox CRUD.
type EmailHandler struct {
	mailbox *service.MailboxService
	logger  *zap.Logger
}

func NewEmailHandler(mailbox *service.MailboxService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{mailbox: mailbox, logger: logger}
}

// Send handles POST /email/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.mailbox.Send(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, email)
}

// ListInbox handles GET /email/inbox with an optional email filter on
// the recipient.
func (h *EmailHandler) ListInbox(c *gin.Context) {
	h.list(c, models.FolderInbox)
}

// ListOutbox handles GET /email/outbox with an optional email filter on
// the sender.
func (h *EmailHandler) ListOutbox(c *gin.Context) {
	h.list(c, models.FolderOutbox)
}

func (h *EmailHandler) list(c *gin.Context, folder models.Folder) {
	emails, err := h.mailbox.List(folder, c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emails)
}

// GetInbox handles GET /email/inbox/:id
func (h *EmailHandler) GetInbox(c *gin.Context) {
	h.get(c, models.FolderInbox)
}

// GetOutbox handles GET /email/outbox/:id
func (h *EmailHandler) GetOutbox(c *gin.Context) {
	h.get(c, models.FolderOutbox)
}

func (h *EmailHandler) get(c *gin.Context, folder models.Folder) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	email, err := h.mailbox.Get(folder, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, email)
}

// DeleteInbox handles DELETE /email/inbox/:id
func (h *EmailHandler) DeleteInbox(c *gin.Context) {
	h.delete(c, models.FolderInbox)
}

// DeleteOutbox handles DELETE /email/outbox/:id
func (h *EmailHandler) DeleteOutbox(c *gin.Context) {
	h.delete(c, models.FolderOutbox)
}

func (h *EmailHandler) delete(c *gin.Context, folder models.Folder) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.mailbox.Delete(folder, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email deleted successfully"})
}

// MarkRead handles POST /email/mark-read/:id
func (h *EmailHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.mailbox.MarkRead(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email marked as read", "email_id": id})
}

// ClearInbox handles DELETE /email/inbox
func (h *EmailHandler) ClearInbox(c *gin.Context) {
	count := h.mailbox.ClearInbox()
	c.JSON(http.StatusOK, gin.H{"message": "inbox cleared", "count": count})
}

// ClearOutbox handles DELETE /email/outbox
func (h *EmailHandler) ClearOutbox(c *gin.Context) {
	count := h.mailbox.ClearOutbox()
	c.JSON(http.StatusOK, gin.H{"message": "outbox cleared", "count": count})
}

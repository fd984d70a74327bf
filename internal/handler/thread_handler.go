package handler

import (
	"net/http"

	"courier-chat/internal/services"
	"courier-chat/internal/transport/httpdto"
	courier_errors "courier-chat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ThreadHandler struct {
	service *services.ThreadService
	paging  Pagination
}

func NewThreadHandler(service *services.ThreadService, paging Pagination) *ThreadHandler {
	return &ThreadHandler{service: service, paging: paging}
}

// Create returns 201 for a new thread and 200 when the pair already had one.
func (h *ThreadHandler) Create(c *gin.Context) {
	var req httpdto.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	requesterID, ok := currentUser(c)
	if !ok {
		return
	}

	participantID, err := uuid.Parse(req.Participant)
	if err != nil {
		writeError(c, courier_errors.Invalid("participant", "must be a valid user id"))
		return
	}

	t, created, err := h.service.CreateOrGet(c.Request.Context(), requesterID, participantID)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, httpdto.NewSuccessResponse(httpdto.CreateThreadResponse{
		ID:      t.ID.String(),
		Created: created,
	}))
}

func (h *ThreadHandler) GetByID(c *gin.Context) {
	requesterID, ok := currentUser(c)
	if !ok {
		return
	}
	threadID, ok := pathID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), threadID, requesterID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromThread(t)))
}

func (h *ThreadHandler) Delete(c *gin.Context) {
	requesterID, ok := currentUser(c)
	if !ok {
		return
	}
	threadID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), threadID, requesterID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListForUser lists the threads of the user named in the path.
func (h *ThreadHandler) ListForUser(c *gin.Context) {
	requesterID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		writeError(c, courier_errors.Invalid("user_id", "must be a valid user id"))
		return
	}

	page := h.paging.fromQuery(c)
	threads, total, err := h.service.ListForUser(c.Request.Context(), requesterID, userID, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(
		httpdto.NewPageResponse(httpdto.FromThreads(threads), total, page.Number, page.Size),
	))
}

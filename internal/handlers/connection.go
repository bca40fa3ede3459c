package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"linkup-service/internal/models"
	"linkup-service/internal/observability"
	"linkup-service/internal/repositories"
	"linkup-service/internal/telemetry"
)

// ConnectionHandler manages connection request endpoints.
type ConnectionHandler struct {
	connRepo repositories.ConnectionRepository
	userRepo repositories.UserRepository
	emitter  *telemetry.Emitter
}

// NewConnectionHandler builds a ConnectionHandler.
func NewConnectionHandler(connRepo repositories.ConnectionRepository, userRepo repositories.UserRepository, emitter *telemetry.Emitter) *ConnectionHandler {
	return &ConnectionHandler{connRepo: connRepo, userRepo: userRepo, emitter: emitter}
}

// SendRequest creates a pending connection request to the user in the path.
func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	recipientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	requesterID := callerID(c)

	if requesterID == recipientID {
		fail(c, http.StatusBadRequest, "Cannot connect with yourself")
		return
	}

	recipient, err := h.userRepo.GetByID(c.Request.Context(), recipientID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		internalError(c, err)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	// Body is optional; a missing or empty message gets the default greeting.
	_ = c.ShouldBindJSON(&req)
	if req.Message == "" {
		req.Message = fmt.Sprintf("Hi %s, I'd like to connect with you!", recipient.Username)
	}

	conn, err := h.connRepo.Create(c.Request.Context(), requesterID, recipientID, req.Message)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionExists) {
			fail(c, http.StatusBadRequest, "Connection already exists or pending")
			return
		}
		internalError(c, err)
		return
	}

	observability.IncConnectionEvent("requested")
	h.emitter.Emit(c.Request.Context(), "connection.requested", requestIDFromContext(c), callerIDRef(c), gin.H{
		"connection_id": conn.ID,
		"recipient_id":  conn.RecipientID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Connection request sent successfully",
		"connection": conn,
	})
}

// ListIncoming returns pending requests addressed to the caller.
func (h *ConnectionHandler) ListIncoming(c *gin.Context) {
	requests, err := h.connRepo.ListIncoming(c.Request.Context(), callerID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "received_requests": requests})
}

// ListOutgoing returns pending requests the caller has sent.
func (h *ConnectionHandler) ListOutgoing(c *gin.Context) {
	requests, err := h.connRepo.ListOutgoing(c.Request.Context(), callerID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sent_requests": requests})
}

// Respond accepts or rejects a pending request. Only the recipient may
// respond, and only once.
func (h *ConnectionHandler) Respond(c *gin.Context) {
	connectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid connection id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.Status != models.ConnectionAccepted && req.Status != models.ConnectionRejected) {
		fail(c, http.StatusBadRequest, "Invalid status. Must be 'accepted' or 'rejected'")
		return
	}

	conn, err := h.connRepo.Respond(c.Request.Context(), connectionID, callerID(c), req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			fail(c, http.StatusNotFound, "Connection request not found or already responded")
			return
		}
		internalError(c, err)
		return
	}

	observability.IncConnectionEvent(conn.Status)
	h.emitter.Emit(c.Request.Context(), "connection."+conn.Status, requestIDFromContext(c), callerIDRef(c), gin.H{
		"connection_id": conn.ID,
		"requester_id":  conn.RequesterID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("Connection request %s successfully", conn.Status),
		"connection": conn,
	})
}

// ListAccepted returns the caller's accepted connections.
func (h *ConnectionHandler) ListAccepted(c *gin.Context) {
	connections, err := h.connRepo.ListAccepted(c.Request.Context(), callerID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "connections": connections})
}

// Remove deletes an accepted connection the caller is party to.
func (h *ConnectionHandler) Remove(c *gin.Context) {
	connectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid connection id")
		return
	}

	conn, err := h.connRepo.Remove(c.Request.Context(), connectionID, callerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			fail(c, http.StatusNotFound, "Connection not found")
			return
		}
		internalError(c, err)
		return
	}

	observability.IncConnectionEvent("removed")
	h.emitter.Emit(c.Request.Context(), "connection.removed", requestIDFromContext(c), callerIDRef(c), gin.H{
		"connection_id": conn.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Connection removed successfully"})
}

// CheckStatus reports the connection state between two users. Callers may
// only inspect pairs they belong to.
func (h *ConnectionHandler) CheckStatus(c *gin.Context) {
	userID1, err1 := strconv.Atoi(c.Param("userId1"))
	userID2, err2 := strconv.Atoi(c.Param("userId2"))
	if err1 != nil || err2 != nil {
		fail(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	caller := callerID(c)
	if caller != userID1 && caller != userID2 {
		fail(c, http.StatusForbidden, "You can only check your own connections")
		return
	}

	conn, err := h.connRepo.GetBetween(c.Request.Context(), userID1, userID2)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "connection": nil, "are_connected": false})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"connection":    conn,
		"are_connected": conn.Status == models.ConnectionAccepted,
	})
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"linkup-service/internal/models"
	"linkup-service/internal/observability"
	"linkup-service/internal/repositories"
	"linkup-service/internal/telemetry"
)

// MessageHandler manages direct-messaging endpoints. Every send and
// conversation open passes the connection gate: no message flows between
// users without an accepted connection.
type MessageHandler struct {
	connRepo repositories.ConnectionRepository
	convRepo repositories.ConversationRepository
	msgRepo  repositories.MessageRepository
	userRepo repositories.UserRepository
	emitter  *telemetry.Emitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(
	connRepo repositories.ConnectionRepository,
	convRepo repositories.ConversationRepository,
	msgRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	emitter *telemetry.Emitter,
) *MessageHandler {
	return &MessageHandler{
		connRepo: connRepo,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		userRepo: userRepo,
		emitter:  emitter,
	}
}

// Send stores a message for the receiver in the path, creating the
// conversation lazily on first contact.
func (h *MessageHandler) Send(c *gin.Context) {
	ctx, span := otel.Tracer("linkup-service/handlers").Start(c.Request.Context(), "message.send")
	defer span.End()

	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		fail(c, http.StatusBadRequest, "Message content is required")
		return
	}

	senderID := callerID(c)
	if senderID == 0 {
		fail(c, http.StatusUnauthorized, "Unauthorized: user not authenticated")
		return
	}

	receiverID, err := strconv.Atoi(c.Param("id"))
	if err != nil || receiverID <= 0 {
		fail(c, http.StatusBadRequest, "Receiver ID is required")
		return
	}

	span.SetAttributes(attribute.Int("message.receiver_id", receiverID))

	connected, err := h.connRepo.IsConnected(ctx, senderID, receiverID)
	if err != nil {
		internalError(c, err)
		return
	}
	if !connected {
		observability.IncMessageBlocked()
		fail(c, http.StatusForbidden, "You must be connected to this user to send messages")
		return
	}

	conv, err := h.convRepo.GetOrCreate(ctx, senderID, receiverID)
	if err != nil {
		internalError(c, err)
		return
	}

	msg, err := h.msgRepo.Create(ctx, conv.ID, senderID, receiverID, req.Message)
	if err != nil {
		internalError(c, err)
		return
	}

	observability.IncMessageSent()
	h.emitter.Emit(ctx, "message.created", requestIDFromContext(c), callerIDRef(c), gin.H{
		"message_id":      msg.ID,
		"conversation_id": msg.ConversationID,
		"receiver_id":     msg.ReceiverID,
	})

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msg})
}

// History returns a conversation's messages in ascending creation order. The
// path id may be a conversation id or, for older clients, a peer user id; an
// unresolvable id yields an empty success, not an error.
func (h *MessageHandler) History(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid conversation id")
		return
	}

	userID := callerID(c)
	if userID == 0 {
		fail(c, http.StatusUnauthorized, "Unauthorized: user not authenticated")
		return
	}

	conv, err := h.resolveConversation(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "messages": []models.Message{}})
			return
		}
		internalError(c, err)
		return
	}

	msgs, err := h.msgRepo.ListByConversation(c.Request.Context(), conv.ID)
	if err != nil {
		internalError(c, err)
		return
	}

	expanded, err := h.expandParticipants(c.Request.Context(), msgs)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": expanded})
}

// OpenConversation resolves (or lazily creates) the conversation with the
// peer in the path, behind the same gate as Send.
func (h *MessageHandler) OpenConversation(c *gin.Context) {
	peerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || peerID <= 0 {
		fail(c, http.StatusBadRequest, "Other user ID is required")
		return
	}

	userID := callerID(c)
	if userID == 0 {
		fail(c, http.StatusUnauthorized, "Unauthorized: user not authenticated")
		return
	}

	connected, err := h.connRepo.IsConnected(c.Request.Context(), userID, peerID)
	if err != nil {
		internalError(c, err)
		return
	}
	if !connected {
		fail(c, http.StatusForbidden, "You must be connected to this user to start a conversation")
		return
	}

	conv, err := h.convRepo.GetOrCreate(c.Request.Context(), userID, peerID)
	if err != nil {
		internalError(c, err)
		return
	}

	peer, err := h.userRepo.GetByID(c.Request.Context(), conv.OtherParticipant(userID))
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "conversation": conv, "participant": peer.Public()})
}

// resolveConversation tries the id as a conversation id first, then falls
// back to treating it as a peer user id.
func (h *MessageHandler) resolveConversation(ctx context.Context, id, userID int) (models.Conversation, error) {
	conv, err := h.convRepo.GetByID(ctx, id)
	if err == nil {
		if !conv.HasParticipant(userID) {
			return models.Conversation{}, repositories.ErrConversationNotFound
		}
		return conv, nil
	}
	if !errors.Is(err, repositories.ErrConversationNotFound) {
		return models.Conversation{}, err
	}
	return h.convRepo.GetByParticipants(ctx, userID, id)
}

// messageView pairs a message with display fields for both parties.
type messageView struct {
	models.Message
	Sender   *models.PublicProfile `json:"sender,omitempty"`
	Receiver *models.PublicProfile `json:"receiver,omitempty"`
}

func (h *MessageHandler) expandParticipants(ctx context.Context, msgs []models.Message) ([]messageView, error) {
	ids := make([]int, 0, 2)
	seen := map[int]struct{}{}
	for _, m := range msgs {
		for _, id := range []int{m.SenderID, m.ReceiverID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := h.userRepo.PublicByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]models.PublicProfile, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		view := messageView{Message: m}
		if u, ok := byID[m.SenderID]; ok {
			sender := u
			view.Sender = &sender
		}
		if u, ok := byID[m.ReceiverID]; ok {
			receiver := u
			view.Receiver = &receiver
		}
		views = append(views, view)
	}
	return views, nil
}

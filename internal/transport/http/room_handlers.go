package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/store"
)

// RoomHandlers provides read-only REST mirrors of rooms and messages,
// used by clients for the initial page load before the websocket opens.
type RoomHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.Store, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store: st,
		log:   logger,
	}
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatorID int64  `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID        int64  `json:"id"`
	RoomID    int64  `json:"roomId"`
	SenderID  int64  `json:"senderId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// ListRooms lists the rooms the authenticated user participates in.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	rooms, err := h.store.ListRoomsForUser(c.Request.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, RoomResponse{
			ID:        room.ID,
			Name:      room.Name,
			CreatorID: room.CreatorID,
			CreatedAt: room.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, response)
}

// ListMessages returns a room's messages in chronological order.
// GET /api/rooms/:id/messages
func (h *RoomHandlers) ListMessages(c *gin.Context) {
	uid, roomID, ok := h.authorizeRoomRead(c)
	if !ok {
		return
	}

	messages, err := h.store.ListMessages(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Int64("room_id", roomID).Int64("user_id", uid).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			ID:        msg.ID,
			RoomID:    msg.RoomID,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, response)
}

// ListParticipants returns a room's participant list.
// GET /api/rooms/:id/participants
func (h *RoomHandlers) ListParticipants(c *gin.Context) {
	uid, roomID, ok := h.authorizeRoomRead(c)
	if !ok {
		return
	}

	participants, err := h.store.ListParticipants(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Int64("room_id", roomID).Int64("user_id", uid).Msg("failed to list participants")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]UserResponse, 0, len(participants))
	for _, p := range participants {
		response = append(response, userResponse(p))
	}

	c.JSON(http.StatusOK, response)
}

// authorizeRoomRead resolves the :id parameter and requires the caller to
// be a participant of that room.
func (h *RoomHandlers) authorizeRoomRead(c *gin.Context) (userID, roomID int64, ok bool) {
	uid, okUser := currentUserID(c)
	if !okUser {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return 0, 0, false
	}

	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return 0, 0, false
	}

	if _, err := h.store.GetRoomByID(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "chat room not found"})
			return 0, 0, false
		}
		h.log.Error().Err(err).Int64("room_id", roomID).Msg("failed to load room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return 0, 0, false
	}

	member, err := h.store.IsParticipant(c.Request.Context(), roomID, uid)
	if err != nil {
		h.log.Error().Err(err).Int64("room_id", roomID).Int64("user_id", uid).Msg("failed to check participant")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return 0, 0, false
	}
	if !member {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a participant of this room"})
		return 0, 0, false
	}

	return uid, roomID, true
}

package api

import (
	"errors"
	"net/http"
	"time"

	"alcyxob/greensteps-app/internal/domain"
	"alcyxob/greensteps-app/internal/sensors"
	"alcyxob/greensteps-app/internal/session"
	"alcyxob/greensteps-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// SessionHandler serves the workout session lifecycle plus its sensor intake
// and media endpoints.
type SessionHandler struct {
	manager *session.Manager
	media   storage.FileStorage // nil when no media storage is configured
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(manager *session.Manager, media storage.FileStorage) *SessionHandler {
	return &SessionHandler{manager: manager, media: media}
}

// --- DTOs ---

// StartSessionRequest selects the activity type for a new session.
type StartSessionRequest struct {
	ActivityType string `json:"activityType" binding:"omitempty,oneof=running walking cycling"`
}

// SessionResponse is the live view of a session.
type SessionResponse struct {
	ID        string                    `json:"id"`
	State     domain.SessionState       `json:"state"`
	GPSActive bool                      `json:"gpsActive"`
	GPSDenied bool                      `json:"gpsDenied"`
	Data      domain.WorkoutSessionData `json:"data"`
}

// LocationFixRequest is one GPS fix pushed by the client.
type LocationFixRequest struct {
	Latitude  float64   `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude float64   `json:"longitude" binding:"required,gte=-180,lte=180"`
	Timestamp time.Time `json:"timestamp"`
	Altitude  *float64  `json:"altitude"`
	Speed     *float64  `json:"speed"`
}

// StepCountRequest carries the device's cumulative step counter.
type StepCountRequest struct {
	Steps int `json:"steps" binding:"gte=0"`
}

// MediaUploadURLRequest asks for a presigned upload URL for session media.
type MediaUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=photo video"`
}

// MediaUploadURLResponse returns the URL and the key the client must report
// back on confirm.
type MediaUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// MediaConfirmRequest attaches an uploaded object to the session.
type MediaConfirmRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
	Kind      string `json:"kind" binding:"required,oneof=photo video"`
}

// SessionMediaItem is one attached photo or video with a temporary view URL.
type SessionMediaItem struct {
	ObjectKey   string `json:"objectKey"`
	Kind        string `json:"kind"`
	DownloadURL string `json:"downloadUrl"`
}

// MediaDeleteRequest removes an attached object from the session and the
// storage backend.
type MediaDeleteRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

func mapSessionToResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID(),
		State:     s.State(),
		GPSActive: s.GPSActive(),
		GPSDenied: s.GPSDenied(),
		Data:      s.Snapshot(),
	}
}

// --- Handler Methods ---

// StartSession creates and starts a new workout session.
func (h *SessionHandler) StartSession(c *gin.Context) {
	// Every field is optional, so a bodyless POST starts a default session.
	var req StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid session request: "+err.Error())
			return
		}
	}
	s, err := h.manager.StartSession(domain.ActivityType(req.ActivityType))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to start session")
		return
	}
	c.JSON(http.StatusCreated, mapSessionToResponse(s))
}

// GetSession returns the live session view.
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(s))
}

// PauseSession freezes an active session.
func (h *SessionHandler) PauseSession(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}
	if err := s.Pause(); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(s))
}

// ResumeSession continues a paused session.
func (h *SessionHandler) ResumeSession(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}
	if err := s.Resume(); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(s))
}

// StopSession finishes the session and returns the frozen summary.
func (h *SessionHandler) StopSession(c *gin.Context) {
	data, err := h.manager.StopSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, "Session not found")
			return
		}
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, data)
}

// RecordLocation feeds a GPS fix into an active session.
func (h *SessionHandler) RecordLocation(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}
	var req LocationFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid location fix: "+err.Error())
		return
	}
	s.RecordFix(sensors.Fix{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: req.Timestamp,
		Altitude:  req.Altitude,
		Speed:     req.Speed,
	})
	c.JSON(http.StatusOK, mapSessionToResponse(s))
}

// RecordSteps feeds the device's cumulative step counter into the session.
func (h *SessionHandler) RecordSteps(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}
	var req StepCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid step count: "+err.Error())
		return
	}
	s.RecordStepCount(req.Steps)
	c.JSON(http.StatusOK, mapSessionToResponse(s))
}

// RequestMediaUploadURL generates a presigned PUT URL for a session photo or
// video.
func (h *SessionHandler) RequestMediaUploadURL(c *gin.Context) {
	if h.media == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Media storage is not configured")
		return
	}
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}
	var req MediaUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid media request: "+err.Error())
		return
	}

	objectKey := storage.SessionMediaKey(s.ID(), storage.MediaKind(req.Kind), req.ContentType)
	uploadURL, err := h.media.GeneratePresignedUploadURL(c.Request.Context(), objectKey, req.ContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}
	c.JSON(http.StatusOK, MediaUploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// ListMedia returns the session's attached photos and videos, each with a
// presigned download URL for viewing in the gallery.
func (h *SessionHandler) ListMedia(c *gin.Context) {
	if h.media == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Media storage is not configured")
		return
	}
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}

	data := s.Snapshot()
	items := make([]SessionMediaItem, 0, len(data.Photos)+len(data.Videos))
	for _, group := range []struct {
		kind string
		keys []string
	}{
		{string(storage.MediaPhoto), data.Photos},
		{string(storage.MediaVideo), data.Videos},
	} {
		for _, key := range group.keys {
			url, err := h.media.GeneratePresignedDownloadURL(c.Request.Context(), key, storage.DefaultPresignedURLExpiry)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
				return
			}
			items = append(items, SessionMediaItem{ObjectKey: key, Kind: group.kind, DownloadURL: url})
		}
	}
	c.JSON(http.StatusOK, items)
}

// DeleteMedia detaches an object from the session and removes it from the
// storage backend.
func (h *SessionHandler) DeleteMedia(c *gin.Context) {
	if h.media == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Media storage is not configured")
		return
	}
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}
	var req MediaDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid media request: "+err.Error())
		return
	}
	if err := s.DetachMedia(req.ObjectKey); err != nil {
		if errors.Is(err, session.ErrMediaNotFound) {
			abortWithError(c, http.StatusNotFound, "Media not attached to session")
			return
		}
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	if err := h.media.DeleteObject(c.Request.Context(), req.ObjectKey); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to delete media object")
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(s))
}

// ConfirmMedia attaches an uploaded object key to the session.
func (h *SessionHandler) ConfirmMedia(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return
	}
	var req MediaConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid media confirmation: "+err.Error())
		return
	}
	if req.Kind == string(storage.MediaVideo) {
		err = s.AttachVideo(req.ObjectKey)
	} else {
		err = s.AttachPhoto(req.ObjectKey)
	}
	if err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(s))
}

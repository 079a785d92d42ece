package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	appconfig "github.com/karagozeren/akademiknet/config"
	"github.com/karagozeren/akademiknet/internal/launcher"
	"github.com/karagozeren/akademiknet/internal/session"
)

// CollaboratorsHandler owns the collaborator endpoints. POST selects a
// profile and blocks for phase 2; GET only reads, optionally waiting.
type CollaboratorsHandler struct {
	Cfg      *appconfig.Config
	Store    *session.Store
	Launcher launcher.Launcher
	Log      *log.Logger
}

func (h *CollaboratorsHandler) Register(g *echo.Group) {
	g.POST("/collaborators/:sessionId", h.expand)
	g.GET("/collaborators/:sessionId", h.state)
}

func (h *CollaboratorsHandler) expand(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if !h.Store.Exists(sessionID) {
		collabRequestsTotal.WithLabelValues("unknown_session").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "unknown session "+sessionID)
	}

	var req CollaboratorsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Phase 2 may already have run (single-match fast path, or a
	// previous call). Serve the snapshot as-is.
	if collabs, err := h.Store.ReadCollaborators(sessionID); err == nil {
		collabRequestsTotal.WithLabelValues("ok").Inc()
		return c.JSON(http.StatusOK, CollaboratorsResponse{
			Success:            true,
			SessionID:          sessionID,
			Collaborators:      collabs,
			TotalCollaborators: len(collabs),
			Completed:          h.Store.IsCollabDone(sessionID),
		})
	} else if !errors.Is(err, session.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.ProfileID == nil {
		collabRequestsTotal.WithLabelValues("ok").Inc()
		return c.JSON(http.StatusOK, CollaboratorsResponse{
			Success:            true,
			SessionID:          sessionID,
			Collaborators:      []session.Collaborator{},
			TotalCollaborators: 0,
			Completed:          false,
		})
	}

	profile, err := h.profileByID(sessionID, *req.ProfileID)
	if err != nil {
		collabRequestsTotal.WithLabelValues("unknown_profile").Inc()
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	if err := h.Launcher.LaunchCollaborators(launcher.CollabJob{
		Name:       profile.Name,
		SessionID:  sessionID,
		ProfileURL: profile.URL,
	}); err != nil {
		collabRequestsTotal.WithLabelValues("launch_failed").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	workersLaunched.WithLabelValues("collaborators").Inc()
	h.Log.Printf("session %s: collaborator expansion launched for profile %d", sessionID, profile.ID)

	done := pollUntil(c.Request().Context(), h.Cfg.Server.CollabPoll, h.Cfg.Server.CollabWait, func() bool {
		return h.Store.IsCollabDone(sessionID)
	})
	if !done {
		collabRequestsTotal.WithLabelValues("timeout").Inc()
		return echo.NewHTTPError(http.StatusRequestTimeout, "collaborator scrape timed out")
	}

	collabs, err := h.Store.ReadCollaborators(sessionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	collabRequestsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, CollaboratorsResponse{
		Success:            true,
		SessionID:          sessionID,
		Profile:            profile,
		Collaborators:      collabs,
		TotalCollaborators: len(collabs),
		Completed:          true,
	})
}

func (h *CollaboratorsHandler) state(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if !h.Store.Exists(sessionID) {
		collabRequestsTotal.WithLabelValues("unknown_session").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "unknown session "+sessionID)
	}

	// Blocking is the default; callers opt out with wait=false. An
	// unparsable value falls back to blocking too.
	wait := true
	if v := c.QueryParam("wait"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			wait = parsed
		}
	}
	if wait && !h.Store.IsCollabDone(sessionID) {
		done := pollUntil(c.Request().Context(), h.Cfg.Server.CollabPoll, h.Cfg.Server.CollabWait, func() bool {
			return h.Store.IsCollabDone(sessionID)
		})
		if !done {
			collabRequestsTotal.WithLabelValues("timeout").Inc()
			return echo.NewHTTPError(http.StatusRequestTimeout, "collaborator scrape timed out")
		}
	}

	collabs, err := h.Store.ReadCollaborators(sessionID)
	if errors.Is(err, session.ErrNotFound) {
		collabs = []session.Collaborator{}
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	completed := h.Store.IsCollabDone(sessionID)
	status := "in_progress"
	if completed {
		status = "completed"
	}
	collabRequestsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, CollaboratorsStateResponse{
		Success:            true,
		Collaborators:      collabs,
		TotalCollaborators: len(collabs),
		Completed:          completed,
		Status:             status,
		Timestamp:          time.Now().Format(time.RFC3339),
	})
}

func (h *CollaboratorsHandler) profileByID(sessionID string, profileID int) (*session.Profile, error) {
	profiles, err := h.Store.ReadProfiles(sessionID)
	if err != nil {
		return nil, errors.New("no profiles recorded for session " + sessionID)
	}
	for i := range profiles {
		if profiles[i].ID == profileID {
			return &profiles[i], nil
		}
	}
	return nil, errors.New("profile not found in session " + sessionID)
}

package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	appconfig "github.com/karagozeren/akademiknet/config"
	"github.com/karagozeren/akademiknet/internal/catalog"
	"github.com/karagozeren/akademiknet/internal/launcher"
	"github.com/karagozeren/akademiknet/internal/session"
)

// SearchHandler owns POST /api/search: spawn a discovery worker, poll
// the store until it finishes, shape the response.
type SearchHandler struct {
	Cfg      *appconfig.Config
	Store    *session.Store
	Launcher launcher.Launcher
	Catalog  *catalog.Catalog
	Log      *log.Logger
}

func (h *SearchHandler) Register(g *echo.Group) {
	g.POST("/search", h.search)
}

func (h *SearchHandler) search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		searchesTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	job := launcher.ProfileJob{Name: req.Name, Email: strings.TrimSpace(req.Email)}
	if req.FieldID != 0 {
		fieldName, specialtyNames, err := h.Catalog.Resolve(req.FieldID, req.SpecialtyIDs)
		if err != nil {
			searchesTotal.WithLabelValues("invalid").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		job.Field = fieldName
		job.Specialties = specialtyNames
	}

	sessionID, err := h.Store.CreateSession()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	job.SessionID = sessionID

	if err := h.Launcher.LaunchProfiles(job); err != nil {
		searchesTotal.WithLabelValues("launch_failed").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	workersLaunched.WithLabelValues("profiles").Inc()
	h.Log.Printf("session %s: discovery launched for %q", sessionID, req.Name)

	bound := h.Cfg.Server.SearchWait
	if job.Email != "" {
		bound = h.Cfg.Server.SearchWaitEmail
	}

	started := time.Now()
	var profiles []session.Profile
	done := pollUntil(c.Request().Context(), h.Cfg.Server.PollInterval, bound, func() bool {
		if !h.Store.IsMainDone(sessionID) {
			return false
		}
		p, err := h.Store.ReadProfiles(sessionID)
		if err != nil {
			return false
		}
		profiles = p
		return true
	})
	searchWait.Observe(time.Since(started).Seconds())

	if done {
		resp := SearchResponse{
			Success:       true,
			SessionID:     sessionID,
			Profiles:      profiles,
			TotalProfiles: len(profiles),
		}
		// A single unambiguous hit chains straight into phase 2. The
		// response does not wait for it: the caller comes back through
		// the collaborators endpoint.
		if len(profiles) == 1 && job.Email == "" {
			if err := h.Launcher.LaunchCollaborators(launcher.CollabJob{
				Name:       req.Name,
				SessionID:  sessionID,
				ProfileURL: profiles[0].URL,
			}); err != nil {
				h.Log.Printf("session %s: collaborator launch failed: %v", sessionID, err)
			} else {
				workersLaunched.WithLabelValues("collaborators").Inc()
			}
			resp.Collaborators = []session.Collaborator{}
		}
		searchesTotal.WithLabelValues("ok").Inc()
		return c.JSON(http.StatusOK, resp)
	}

	// Bound exceeded. The worker is still running and may publish
	// later; whatever snapshot exists now is worth returning.
	if partial, err := h.Store.ReadProfiles(sessionID); err == nil && len(partial) > 0 {
		h.Log.Printf("session %s: timed out with %d partial profiles", sessionID, len(partial))
		searchesTotal.WithLabelValues("partial").Inc()
		return c.JSON(http.StatusOK, SearchResponse{
			Success:       true,
			SessionID:     sessionID,
			Profiles:      partial,
			TotalProfiles: len(partial),
			Warning:       "search timed out, results may be incomplete",
		})
	}

	searchesTotal.WithLabelValues("not_found").Inc()
	return echo.NewHTTPError(http.StatusNotFound, "no results found for "+req.Name)
}

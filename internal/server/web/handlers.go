package web

import (
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	"mydiary/internal/abuse"
	"mydiary/internal/server/models"
	"mydiary/internal/server/services"
)

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

type createRequest struct {
	Handle string `json:"handle"`
}

func (s *Server) handleCreate(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	owner, token, err := s.owners.Claim(c.Request().Context(), req.Handle)
	if err != nil {
		return httpError(c, err)
	}

	s.logger.Info(c.Request().Context(), "Diary claimed", "handle", owner.Handle)
	setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, map[string]any{
		"owner": newOwnerView(owner),
		"token": token,
	})
}

type registerRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	owner, token, err := s.owners.Register(c.Request().Context(), req.Handle, req.Email, req.Password)
	if err != nil {
		return httpError(c, err)
	}

	s.logger.Info(c.Request().Context(), "Registered", "handle", owner.Handle)
	setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, map[string]any{
		"owner": newOwnerView(owner),
		"token": token,
	})
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := s.owners.Login(c.Request().Context(), req.Handle, req.Password)
	if err != nil {
		return httpError(c, err)
	}

	setSessionCookie(c, token)
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

type profileRequest struct {
	Bio   string `json:"bio"`
	Theme string `json:"theme"`
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	owner, err := s.owners.UpdateProfile(c.Request().Context(), actorID(c), req.Bio, req.Theme)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"owner": newOwnerView(owner)})
}

func (s *Server) handleListPublic(c echo.Context) error {
	ctx := c.Request().Context()
	handle := c.Param("handle")

	owner, err := s.owners.GetByHandle(ctx, handle)
	if err != nil {
		return httpError(c, err)
	}

	page, err := s.content.ListPublic(ctx, handle, c.QueryParam("cursor"))
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"owner":       newOwnerView(owner),
		"notes":       newNoteViews(page.Notes),
		"next_cursor": page.NextCursor,
	})
}

type submitRequest struct {
	Message    string `json:"message"`
	SenderName string `json:"sender_name"`
	Anonymous  bool   `json:"anonymous"`
	Private    bool   `json:"private"`
	Category   string `json:"category"`
}

func (s *Server) handleSubmit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	payload := services.SubmitPayload{
		Message:    req.Message,
		SenderName: req.SenderName,
		Anonymous:  req.Anonymous,
		Private:    req.Private,
		Category:   models.Category(req.Category),
	}
	submitter := abuse.HashIP(c.RealIP(), s.jwtSecret)

	note, err := s.content.Submit(c.Request().Context(), c.Param("handle"), payload, submitter, actorID(c))
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"note":    newNoteView(note),
	})
}

func (s *Server) handleDashboard(c echo.Context) error {
	var statusFilter *models.Status
	if raw := c.QueryParam("status"); raw != "" {
		status := models.Status(raw)
		statusFilter = &status
	}

	listing, err := s.content.ListByOwner(c.Request().Context(), c.Param("handle"), statusFilter, actorID(c))
	if err != nil {
		return httpError(c, err)
	}

	counts := make(map[string]int64, len(listing.Counts))
	for status, n := range listing.Counts {
		counts[string(status)] = n
	}

	return c.JSON(http.StatusOK, map[string]any{
		"notes":           newNoteViews(listing.Notes),
		"counts":          counts,
		"total_reactions": listing.TotalReactions,
	})
}

func (s *Server) handleTransition(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	// the route's last segment names the event: approve, archive, delete
	event := models.Event(path.Base(c.Path()))

	note, err := s.moderation.Transition(c.Request().Context(), id, actorID(c), event)
	if err != nil {
		return httpError(c, err)
	}

	resp := map[string]any{"success": true}
	if note != nil {
		resp["note"] = newNoteView(note)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMarkRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := s.moderation.MarkRead(c.Request().Context(), id, actorID(c)); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleFlag(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := s.moderation.Flag(c.Request().Context(), id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type reactRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleReact(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	var req reactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	counts, err := s.moderation.React(c.Request().Context(), id, models.ReactionType(req.Type))
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"reactions": map[string]int64{
			string(models.ReactionHeart): counts.Heart,
			string(models.ReactionLaugh): counts.Laugh,
			string(models.ReactionWow):   counts.Wow,
		},
	})
}

func (s *Server) handleSearch(c echo.Context) error {
	found, err := s.owners.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpError(c, err)
	}

	results := make([]map[string]string, 0, len(found))
	for _, o := range found {
		results = append(results, map[string]string{
			"handle": o.Handle,
			"url":    "/" + o.Handle,
		})
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleDiscover(c echo.Context) error {
	trending, err := s.owners.Trending(c.Request().Context(), 12)
	if err != nil {
		return httpError(c, err)
	}

	results := make([]map[string]any, 0, len(trending))
	for _, o := range trending {
		results = append(results, map[string]any{
			"handle":     o.Handle,
			"bio":        o.Bio,
			"theme":      o.Theme,
			"note_count": o.NoteCount,
		})
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleListFlagged(c echo.Context) error {
	flagged, err := s.moderation.ListFlagged(c.Request().Context(), actorID(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"notes": newNoteViews(flagged)})
}

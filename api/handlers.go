package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// handleCreateSession handles POST /api/v1/session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to create session: %v", err))
		return
	}

	response := SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
		Length:    session.Service.Length(),
	}

	writeJSON(w, http.StatusCreated, response)
}

// handleListSessions handles GET /api/v1/session
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()

	response := map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleGetSessionStatus handles GET /api/v1/session/{id}
func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	response := SessionStatusResponse{
		SessionID: sessionID,
		Position:  session.Service.Position(),
		Length:    session.Service.Length(),
		Filter:    session.Service.FilterState(),
		Watches:   session.Service.Watches(),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleDestroySession handles DELETE /api/v1/session/{id}
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Session destroyed",
	})
}

// handleGoto handles POST /api/v1/session/{id}/goto
func (s *Server) handleGoto(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var req GotoRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.Service.Goto(req.Index); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Goto failed: %v", err))
		return
	}

	s.broadcaster.BroadcastPosition(sessionID, session.Service.Position(), session.Service.Length())

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleStep handles POST /api/v1/session/{id}/step
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var req StepRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.Service.Step(req.Delta); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Step failed: %v", err))
		return
	}

	s.broadcaster.BroadcastPosition(sessionID, session.Service.Position(), session.Service.Length())

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleSetFilter handles POST /api/v1/session/{id}/filter
func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var req FilterRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := session.Service.SetFilter(req.Expression)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid filter: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, FilterResponse{FilterState: state})
}

// handleClearFilter handles DELETE /api/v1/session/{id}/filter
func (s *Server) handleClearFilter(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	session.Service.ClearFilter()

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleAddWatch handles POST /api/v1/session/{id}/watch
func (s *Server) handleAddWatch(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var req WatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Register < 0 || req.Register > int(regdeps.MaxReg) {
		writeError(w, http.StatusBadRequest, "Invalid register")
		return
	}

	id := session.Service.AddWatch(regdeps.V(uint8(req.Register)), req.ReadWrite)

	s.broadcaster.BroadcastWatchChange(sessionID, id, "add")

	writeJSON(w, http.StatusOK, WatchResponse{ID: id})
}

// handleRemoveWatch handles DELETE /api/v1/session/{id}/watch/{watchID}
func (s *Server) handleRemoveWatch(w http.ResponseWriter, r *http.Request, sessionID string, watchID int) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	if err := session.Service.RemoveWatch(watchID); err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Failed to remove watch: %v", err))
		return
	}

	s.broadcaster.BroadcastWatchChange(sessionID, watchID, "remove")

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleListWatches handles GET /api/v1/session/{id}/watches
func (s *Server) handleListWatches(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, WatchesResponse{Watches: session.Service.Watches()})
}

// handleWindow handles GET /api/v1/session/{id}/window?before=N&after=N
func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	query := r.URL.Query()
	before, _ := strconv.Atoi(query.Get("before"))
	after, _ := strconv.Atoi(query.Get("after"))
	if before == 0 && after == 0 {
		before, after = 15, 25
	}

	writeJSON(w, http.StatusOK, WindowResponse{Instructions: session.Service.Window(before, after)})
}

// handleRegisterStats handles GET /api/v1/session/{id}/registers/{reg}
func (s *Server) handleRegisterStats(w http.ResponseWriter, r *http.Request, sessionID string, parts []string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if len(parts) < 3 {
		writeError(w, http.StatusBadRequest, "Register id required")
		return
	}

	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 0 || n > int(regdeps.MaxReg) {
		writeError(w, http.StatusBadRequest, "Invalid register")
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, RegisterStatsResponse{Stats: session.Service.RegisterStats(regdeps.V(uint8(n)))})
}

// handleCategoryStats handles GET /api/v1/session/{id}/stats?top=N
func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	n, err := strconv.Atoi(r.URL.Query().Get("top"))
	if err != nil || n <= 0 {
		n = 5
	}

	writeJSON(w, http.StatusOK, CategoryStatsResponse{Categories: session.Service.TopCategories(n)})
}

// handleLint handles GET /api/v1/session/{id}/lint
func (s *Server) handleLint(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, LintResponse{Issues: session.Service.Lint()})
}

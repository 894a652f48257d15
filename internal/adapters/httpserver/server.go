package httpserver

import (
	"crypto/hmac"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/pcbuilder/internal/adapters/sheets"
	"github.com/phenrril/pcbuilder/internal/domain"
	"github.com/phenrril/pcbuilder/internal/usecase"
)

// UserHeader carries the opaque owner id. The service trusts it as given.
const UserHeader = "X-User-ID"

// AdminHeader carries the operator token; "Authorization: Bearer" works too.
const AdminHeader = "X-Admin-Token"

type Server struct {
	mux        *http.ServeMux
	components *usecase.ComponentUC
	builds     *usecase.BuildUC
	requests   *usecase.RequestUC
	sessionKey []byte
	adminToken []byte
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// New wires the API. With an empty adminToken the operator routes answer
// 401 to everyone.
func New(c *usecase.ComponentUC, b *usecase.BuildUC, r *usecase.RequestUC, sessionKey, adminToken string) http.Handler {
	if sessionKey == "" {
		sessionKey = "dev-insecure"
	}
	s := &Server{
		mux:        http.NewServeMux(),
		components: c,
		builds:     b,
		requests:   r,
		sessionKey: []byte(sessionKey),
		adminToken: []byte(adminToken),
	}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /api/categories", s.apiCategories)
	s.mux.HandleFunc("GET /api/components", s.apiComponents)

	// in-progress build, kept in the signed cookie
	s.mux.HandleFunc("GET /api/build", s.apiBuild)
	s.mux.HandleFunc("POST /api/build/select", s.apiSelect)
	s.mux.HandleFunc("POST /api/build/deselect", s.apiDeselect)
	s.mux.HandleFunc("POST /api/build/clear", s.apiClear)
	s.mux.HandleFunc("POST /api/build/quote", s.apiQuote)
	s.mux.HandleFunc("POST /api/build/request", s.apiRequest)

	// saved builds
	s.mux.HandleFunc("GET /api/builds", s.apiListBuilds)
	s.mux.HandleFunc("POST /api/builds", s.apiSaveBuild)
	s.mux.HandleFunc("GET /api/builds/public", s.apiPublicBuilds)
	s.mux.HandleFunc("GET /api/builds/{id}", s.apiGetBuild)
	s.mux.HandleFunc("PUT /api/builds/{id}", s.apiReplaceBuild)
	s.mux.HandleFunc("DELETE /api/builds/{id}", s.apiDeleteBuild)
	s.mux.HandleFunc("POST /api/builds/{id}/load", s.apiLoadBuild)
	s.mux.HandleFunc("GET /api/builds/{id}/sheet", s.apiBuildSheet)

	s.mux.HandleFunc("GET /api/requests/{id}", s.apiGetRequest)

	// operator
	s.mux.HandleFunc("POST /api/components", s.apiCreateComponent)
	s.mux.HandleFunc("DELETE /api/components/{id}", s.apiDeleteComponent)
	s.mux.HandleFunc("GET /api/requests", s.apiListRequests)
	s.mux.HandleFunc("PATCH /api/requests/{id}", s.apiUpdateRequest)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"categories": s.components.Categories()})
}

type componentView struct {
	domain.Component
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) apiComponents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat, err := domain.ParseCategory(q.Get("category"))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	compatibleOnly := q.Get("compatible") == "1" || q.Get("compatible") == "true"
	list, err := s.components.ListForSlot(r.Context(), cat, q.Get("q"), q.Get("sort"), sess.Selection, compatibleOnly)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	items := make([]componentView, 0, len(list))
	for _, c := range list {
		items = append(items, componentView{Component: c, Warnings: domain.PreviewWarnings(cat, c, sess.Selection)})
	}
	writeJSON(w, 200, map[string]any{
		"category":  cat,
		"occupancy": sess.Selection.Occupancy(cat),
		"items":     items,
		"total":     len(items),
	})
}

func (s *Server) apiBuild(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeSession(w, sess)
	writeJSON(w, 200, viewOf(sess))
}

type selectReq struct {
	Category    string `json:"category"`
	ComponentID string `json:"component_id"`
}

func (s *Server) apiSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	cat, err := domain.ParseCategory(req.Category)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	id, err := uuid.Parse(req.ComponentID)
	if err != nil {
		s.fail(w, r, &domain.ValidationError{Fields: []string{"component_id"}, Reason: "invalid id"}, nil)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	c, err := s.components.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, sess)
		return
	}
	if !c.Active {
		s.fail(w, r, domain.ErrNotFound, sess)
		return
	}
	if err := sess.Selection.Select(cat, *c); err != nil {
		s.fail(w, r, err, sess)
		return
	}
	s.writeSession(w, sess)
	writeJSON(w, 200, viewOf(sess))
}

func (s *Server) apiDeselect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	cat, err := domain.ParseCategory(req.Category)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	var idp *uuid.UUID
	if strings.TrimSpace(req.ComponentID) != "" {
		id, err := uuid.Parse(req.ComponentID)
		if err != nil {
			s.fail(w, r, &domain.ValidationError{Fields: []string{"component_id"}, Reason: "invalid id"}, nil)
			return
		}
		idp = &id
	}
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess.Selection.Deselect(cat, idp)
	s.writeSession(w, sess)
	writeJSON(w, 200, viewOf(sess))
}

func (s *Server) apiClear(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess.Selection.Clear()
	s.writeSession(w, sess)
	writeJSON(w, 200, viewOf(sess))
}

type customerReq struct {
	CustomerInfo domain.CustomerInfo `json:"customerInfo"`
}

func (s *Server) customer(r *http.Request) (domain.CustomerInfo, error) {
	var req customerReq
	if err := decode(r, &req); err != nil {
		return domain.CustomerInfo{}, err
	}
	c := req.CustomerInfo
	if e := strings.TrimSpace(c.Email); e != "" && !emailRe.MatchString(e) {
		return c, &domain.ValidationError{Fields: []string{"email"}, Reason: "invalid email"}
	}
	return c, nil
}

func (s *Server) apiQuote(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	c, err := s.customer(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	req, err := s.requests.Quote(sess, c)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, 200, req)
}

func (s *Server) apiRequest(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	c, err := s.customer(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	rec, req, err := s.requests.Submit(r.Context(), userID(r), sess, c)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, 201, map[string]any{
		"id":        rec.ID,
		"status":    rec.Status,
		"forwarded": rec.Forwarded,
		"request":   req,
	})
}

func (s *Server) apiGetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, domain.ErrNotFound, nil)
		return
	}
	var rec *domain.BuildRequestRecord
	var err error
	if s.isAdmin(r) {
		rec, err = s.requests.Find(r.Context(), id)
	} else {
		rec, err = s.requests.Get(r.Context(), id, userID(r))
	}
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, 200, rec)
}

func (s *Server) apiListRequests(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	list, err := s.requests.ListByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, 200, map[string]any{"items": list, "total": len(list)})
}

type statusReq struct {
	Status string `json:"status"`
}

func (s *Server) apiUpdateRequest(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, domain.ErrNotFound, nil)
		return
	}
	var req statusReq
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	st, err := domain.ParseBuildRequestStatus(req.Status)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	rec, err := s.requests.SetStatus(r.Context(), id, st)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, 200, rec)
}

func (s *Server) apiCreateComponent(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var c domain.Component
	if err := decode(r, &c); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	c.ID = uuid.Nil
	c.Active = true
	if err := s.components.Create(r.Context(), &c); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, 201, c)
}

func (s *Server) apiDeleteComponent(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, domain.ErrNotFound, nil)
		return
	}
	if err := s.components.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type saveReq struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

func (s *Server) apiSaveBuild(w http.ResponseWriter, r *http.Request) {
	var req saveReq
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess.Name = req.Name
	b, err := s.builds.Save(r.Context(), userID(r), sess, req.IsPublic)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeSession(w, sess)
	writeJSON(w, 201, b)
}

func (s *Server) apiReplaceBuild(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, domain.ErrNotFound, nil)
		return
	}
	var req saveReq
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	sess.Name = req.Name
	b, err := s.builds.Replace(r.Context(), id, userID(r), sess, req.IsPublic)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeSession(w, sess)
	writeJSON(w, 200, b)
}

func (s *Server) apiListBuilds(w http.ResponseWriter, r *http.Request) {
	list, err := s.builds.List(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, 200, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) apiPublicBuilds(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.builds.ListPublic(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, 200, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) apiGetBuild(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, domain.ErrNotFound, nil)
		return
	}
	b, err := s.builds.Get(r.Context(), id, userID(r))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, 200, b)
}

func (s *Server) apiDeleteBuild(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, domain.ErrNotFound, nil)
		return
	}
	if err := s.builds.Delete(r.Context(), id, userID(r)); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiLoadBuild(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, domain.ErrNotFound, nil)
		return
	}
	sess, err := s.builds.Load(r.Context(), id, userID(r))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeSession(w, sess)
	writeJSON(w, 200, viewOf(sess))
}

func (s *Server) apiBuildSheet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, domain.ErrNotFound, nil)
		return
	}
	b, err := s.builds.Get(r.Context(), id, userID(r))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="build-`+b.ID.String()[:8]+`.xlsx"`)
	if err := sheets.ExportBuild(w, b); err != nil {
		log.Error().Err(err).Str("build_id", b.ID.String()).Msg("export build sheet")
	}
}

// fail maps domain errors onto status codes. sess, when set, is echoed back
// so the client can redraw the unchanged build.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, sess *domain.Session) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, 400, map[string]any{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, errBadJSON):
		writeJSON(w, 400, map[string]any{"error": err.Error()})
	case errors.Is(err, domain.ErrUnknownCategory), errors.Is(err, domain.ErrCategoryMismatch):
		writeJSON(w, 400, map[string]any{"error": err.Error()})
	case errors.Is(err, domain.ErrCapacityExceeded):
		body := map[string]any{"error": err.Error()}
		if sess != nil {
			body["build"] = viewOf(sess)
		}
		writeJSON(w, 409, body)
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, 409, map[string]any{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, 404, map[string]any{"error": "not found"})
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Str("request_id", RequestIDFrom(r.Context())).Msg("request failed")
		writeJSON(w, 500, map[string]any{"error": "internal error"})
	}
}

var errBadJSON = errors.New("invalid json body")

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 16<<10))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errBadJSON
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}

func (s *Server) isAdmin(r *http.Request) bool {
	if len(s.adminToken) == 0 {
		return false
	}
	tok := strings.TrimSpace(r.Header.Get(AdminHeader))
	if auth := r.Header.Get("Authorization"); tok == "" && strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		tok = strings.TrimSpace(auth[7:])
	}
	return tok != "" && hmac.Equal([]byte(tok), s.adminToken)
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.isAdmin(r) {
		return true
	}
	writeJSON(w, 401, map[string]any{"error": "unauthorized"})
	return false
}

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(UserHeader))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/services"
)

// --- wire views ---

type profileView struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type userView struct {
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	JoinedAt    time.Time  `json:"join_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type messageView struct {
	ID       int64        `json:"id"`
	Body     string       `json:"body"`
	SentAt   time.Time    `json:"sent_at"`
	ReadAt   *time.Time   `json:"read_at,omitempty"`
	FromUser *profileView `json:"from_user,omitempty"`
	ToUser   *profileView `json:"to_user,omitempty"`
}

func toProfileView(p models.Profile) profileView {
	return profileView{
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
	}
}

func toUserView(u *models.User) userView {
	return userView{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinedAt:    u.JoinedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func toMessageView(m *models.Message) messageView {
	v := messageView{
		ID:     m.ID,
		Body:   m.Body,
		SentAt: m.SentAt,
		ReadAt: m.ReadAt,
	}
	if m.From != nil {
		fv := toProfileView(*m.From)
		v.FromUser = &fv
	}
	if m.To != nil {
		tv := toProfileView(*m.To)
		v.ToUser = &tv
	}
	return v
}

func toMessageViews(msgs []*models.Message) []messageView {
	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, toMessageView(m))
	}
	return views
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", common.ErrorInvalidInput)
	}
	return nil
}

// --- auth ---

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), services.RegisterParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "registered", "username", user.Username)
	s.writeJSON(w, r, http.StatusCreated, map[string]any{
		"user":  toUserView(user),
		"token": token,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"username": user.Username,
		"token":    token,
	})
}

// --- users ---

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	profiles, err := s.users.ListProfiles(r.Context(), caller)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, toProfileView(p))
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{"users": views})
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	user, err := s.users.Profile(r.Context(), caller, r.PathValue("username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{"user": toUserView(user)})
}

func (s *HTTPServer) handleMessagesTo(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	msgs, err := s.messages.ReceivedBy(r.Context(), caller, r.PathValue("username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{"messages": toMessageViews(msgs)})
}

func (s *HTTPServer) handleMessagesFrom(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	msgs, err := s.messages.SentBy(r.Context(), caller, r.PathValue("username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{"messages": toMessageViews(msgs)})
}

// --- messages ---

type sendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

func (s *HTTPServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	var req sendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	msg, err := s.messages.Send(r.Context(), caller, req.ToUsername, req.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "message sent", "from", caller, "to", req.ToUsername, "id", msg.ID)
	s.writeJSON(w, r, http.StatusCreated, map[string]any{"message": toMessageView(msg)})
}

func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("message id must be a positive integer: %w", common.ErrorInvalidInput)
	}
	return id, nil
}

func (s *HTTPServer) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	id, err := messageID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	msg, err := s.messages.Get(r.Context(), caller, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{"message": toMessageView(msg)})
}

func (s *HTTPServer) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthenticated)
		return
	}

	id, err := messageID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	msg, err := s.messages.MarkRead(r.Context(), caller, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"message": map[string]any{"id": msg.ID, "read_at": msg.ReadAt},
	})
}

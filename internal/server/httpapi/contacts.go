package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/common"
)

type contactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verificationResponse struct {
	Message   string    `json:"message"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *HTTPServer) listContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) createContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := s.validator.decode(w, r, schemaContact, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.contacts.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *HTTPServer) updateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := s.validator.decode(w, r, schemaContact, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.contacts.Update(r.Context(), r.PathValue("id"), req.Name, req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *HTTPServer) deleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.contacts.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "contact deleted"})
}

func (s *HTTPServer) initiateVerification(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := s.validator.decode(w, r, schemaContact, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.verification.InitiateVerification(r.Context(), req.Name, req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verificationResponse{
		Message:   "verification code sent to email",
		Email:     p.Email,
		ExpiresAt: p.ExpiresAt,
	})
}

func (s *HTTPServer) pendingVerification(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		s.writeError(w, r, common.InvalidInput("email query parameter is required"))
		return
	}

	p, err := s.verification.PendingVerification(r.Context(), email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verificationResponse{
		Message:   "verification pending",
		Email:     p.Email,
		ExpiresAt: p.ExpiresAt,
	})
}

func (s *HTTPServer) confirmVerification(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := s.validator.decode(w, r, schemaConfirm, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.verification.ConfirmVerification(r.Context(), req.Email, req.Code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

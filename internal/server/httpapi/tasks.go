package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/todopoc/internal/common"
	"github.com/dmitrijs2005/todopoc/internal/server/models"
)

type taskCreateRequest struct {
	Text         string  `json:"text"`
	DueDate      *string `json:"dueDate"`
	ContactEmail *string `json:"contactEmail"`
}

func (s *HTTPServer) listTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.tasks.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskCreateRequest
	if err := s.validator.decode(w, r, schemaTaskCreate, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var email string
	if req.ContactEmail != nil {
		email = *req.ContactEmail
	}

	v, err := s.tasks.Create(r.Context(), req.Text, due, email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *HTTPServer) updateTask(w http.ResponseWriter, r *http.Request) {
	// field presence matters, so the body is kept as raw members
	var raw map[string]json.RawMessage
	if err := s.validator.decode(w, r, schemaTaskUpdate, &raw); err != nil {
		s.writeError(w, r, err)
		return
	}

	patch, err := taskPatchFrom(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	v, err := s.tasks.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *HTTPServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "task deleted"})
}

// parseDueDate treats null and "" as no due date.
func parseDueDate(s *string) (*models.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(*s)
	if err != nil {
		return nil, common.InvalidInput(err.Error())
	}
	return &d, nil
}

// taskPatchFrom maps present members to patch fields. A null contactEmail
// unassigns the task like an empty one.
func taskPatchFrom(raw map[string]json.RawMessage) (models.TaskPatch, error) {
	var p models.TaskPatch

	if b, ok := raw["completed"]; ok {
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return p, common.InvalidInput("completed: expected boolean")
		}
		p.Completed = &v
	}

	if b, ok := raw["text"]; ok {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return p, common.InvalidInput("text: expected string")
		}
		p.Text = &v
	}

	if b, ok := raw["dueDate"]; ok {
		var v *string
		if err := json.Unmarshal(b, &v); err != nil {
			return p, common.InvalidInput("dueDate: expected string or null")
		}
		due, err := parseDueDate(v)
		if err != nil {
			return p, err
		}
		p.DueDate = &due
	}

	if b, ok := raw["contactEmail"]; ok {
		var v *string
		if err := json.Unmarshal(b, &v); err != nil {
			return p, common.InvalidInput("contactEmail: expected string or null")
		}
		email := ""
		if v != nil {
			email = *v
		}
		p.ContactEmail = &email
	}

	return p, nil
}

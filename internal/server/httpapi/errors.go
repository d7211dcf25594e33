package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/todopoc/internal/common"
)

var kindStatus = map[common.Kind]int{
	common.KindInvalidInput:           http.StatusBadRequest,
	common.KindAlreadyRegistered:      http.StatusBadRequest,
	common.KindInvalidOrExpiredCode:   http.StatusBadRequest,
	common.KindMissingContact:         http.StatusBadRequest,
	common.KindContactNotFound:        http.StatusNotFound,
	common.KindTaskNotFound:           http.StatusNotFound,
	common.KindPendingContactNotFound: http.StatusNotFound,
	common.KindContactInUse:           http.StatusConflict,
	common.KindInternal:               http.StatusInternalServerError,
}

func statusOf(k common.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := common.KindOf(err)
	status := statusOf(kind)

	msg := err.Error()
	if kind == common.KindInternal {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "request_id", requestID(r.Context()), "error", err.Error())
		msg = kind.String()
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

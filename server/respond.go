package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/credential"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/history"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/platform"
)

// wantsJSON reports whether the caller is an API client rather than a browser form.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("encode response: %s", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// fail answers with message as JSON for API callers and as the index page for browsers.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if wantsJSON(r) {
		writeJSON(w, status, errorBody{Error: message})
		return
	}
	s.render(w, r, status, "index.html", s.indexData(r, message, ""))
}

// failErr maps a service error to its status and readable message.
func (s *Server) failErr(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var ferr *failure.Error
	switch {
	case errors.As(err, &ferr):
		status = ferr.Kind.Status()
	case errors.Is(err, catcher.ErrEmptyURL):
		status = http.StatusBadRequest
	}

	log.WithFields(log.Fields{"path": r.URL.Path, "status": status}).Warnf("request failed: %s", err)

	if wantsJSON(r) {
		body := errorBody{Error: failure.Message(err)}
		if ferr != nil {
			body.Kind = ferr.Kind.String()
		}
		writeJSON(w, status, body)
		return
	}
	s.render(w, r, status, "index.html", s.indexData(r, failure.Message(err), ""))
}

func (s *Server) render(w http.ResponseWriter, _ *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

type indexData struct {
	Platforms []string
	History   []*history.Entry
	Error     string
	Notice    string
	Cookies   credential.Status
}

func (s *Server) indexData(r *http.Request, errMsg, notice string) indexData {
	entries, err := s.History.Get()
	if err != nil {
		log.Warnf("read history: %s", err)
	}

	return indexData{
		Platforms: platform.Names(),
		History:   lo.Reverse(entries),
		Error:     errMsg,
		Notice:    lo.Ternary(notice != "", notice, r.URL.Query().Get("notice")),
		Cookies:   s.Credentials.Status(userOf(r)),
	}
}

package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/videocatcher/videocatcher/credential"
)

// uploadedFile returns the first present multipart file among fields.
func (s *Server) uploadedFile(w http.ResponseWriter, r *http.Request, fields ...string) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes+64*1024)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	for _, field := range fields {
		if f, _, err := r.FormFile(field); err == nil {
			return f, nil
		}
	}
	return nil, errors.New("no file uploaded")
}

func uploadStatus(err error) int {
	if errors.Is(err, credential.ErrMalformed) || errors.Is(err, credential.ErrInvalidUser) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (s *Server) handleCookieStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Credentials.Status(userOf(r)))
}

// handleCookieUpload stores the caller's own cookies, restarting their validity window.
// Browsers are sent back to the index page with a notice.
func (s *Server) handleCookieUpload(w http.ResponseWriter, r *http.Request) {
	f, err := s.uploadedFile(w, r, "cookies", "file")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	status, err := s.Credentials.Upload(userOf(r), f)
	if err != nil {
		s.fail(w, r, uploadStatus(err), "Failed to save cookies: "+err.Error())
		return
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, "/?notice="+url.QueryEscape("Cookies uploaded, valid until "+status.ExpiresAt.Format(time.Kitchen)), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleCookieDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Credentials.Delete(userOf(r)); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleTokenUpload replaces the global cookies for automated sync jobs holding the upload token.
func (s *Server) handleTokenUpload(w http.ResponseWriter, r *http.Request) {
	if s.UploadToken == "" {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "API upload not enabled"})
		return
	}

	f, err := s.uploadedFile(w, r, "file", "cookies")
	token := r.Header.Get("X-Upload-Token")
	if token == "" {
		token = r.FormValue("token")
	}
	if !secretEqual(token, s.UploadToken) {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "Invalid upload token"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	defer f.Close()

	if _, err := s.Credentials.UploadGlobal(io.Reader(f)); err != nil {
		writeJSON(w, uploadStatus(err), errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func secretEqual(given, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}

package server

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/videocatcher/videocatcher/credential"
	"github.com/videocatcher/videocatcher/log"
)

// SessionCookie names the cookie carrying the administrator session token.
const SessionCookie = "vc_admin"

type adminData struct {
	Error   string
	Notice  string
	Enabled bool
	Global  credential.Status
	Users   []string
}

func (s *Server) isAdmin(r *http.Request) bool {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	_, ok := s.sessions.Get(c.Value)
	return ok
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isAdmin(r) {
			http.Redirect(w, r, "/admin/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", adminData{Enabled: s.AdminPassword != ""})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.AdminPassword == "" {
		s.render(w, r, http.StatusForbidden, "login.html", adminData{Error: "Administration is disabled: no admin password is configured."})
		return
	}

	if !secretEqual(r.FormValue("password"), s.AdminPassword) {
		log.WithFields(log.Fields{"remote": r.RemoteAddr}).Warn("failed admin login")
		s.render(w, r, http.StatusUnauthorized, "login.html", adminData{Enabled: true, Error: "Invalid password"})
		return
	}

	token := uuid.NewString()
	s.sessions.Set(token, true, cache.DefaultExpiration)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	next := r.URL.Query().Get("next")
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		next = "/admin/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.sessions.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) adminData(errMsg, notice string) adminData {
	users, err := s.Credentials.Users()
	if err != nil {
		log.Warnf("list cookie users: %s", err)
	}
	return adminData{
		Enabled: true,
		Error:   errMsg,
		Notice:  notice,
		Global:  s.Credentials.GlobalStatus(),
		Users:   users,
	}
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "admin.html", s.adminData("", r.URL.Query().Get("notice")))
}

func (s *Server) handleAdminUpload(w http.ResponseWriter, r *http.Request) {
	f, err := s.uploadedFile(w, r, "cookies", "file")
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "admin.html", s.adminData(err.Error(), ""))
		return
	}
	defer f.Close()

	if _, err := s.Credentials.UploadGlobal(f); err != nil {
		s.render(w, r, uploadStatus(err), "admin.html", s.adminData("Failed to save cookies: "+err.Error(), ""))
		return
	}

	log.Info("administrator uploaded global cookies")
	http.Redirect(w, r, "/admin/?notice="+url.QueryEscape("cookies.txt uploaded"), http.StatusSeeOther)
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Credentials.DeleteGlobal(); err != nil {
		s.render(w, r, http.StatusInternalServerError, "admin.html", s.adminData("Failed to remove cookies: "+err.Error(), ""))
		return
	}

	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/admin/?notice="+url.QueryEscape("cookies.txt removed"), http.StatusSeeOther)
}

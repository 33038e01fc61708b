package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/media"
	"github.com/videocatcher/videocatcher/platform"
)

type downloadRequest struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

// parseRequest reads url and platform from a JSON body, a form or the query string.
func parseRequest(r *http.Request) (catcher.Request, error) {
	var body downloadRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(io.LimitReader(r.Body, 64*1024)).Decode(&body); err != nil {
			return catcher.Request{}, err
		}
	} else {
		body.URL = lo.CoalesceOrEmpty(r.FormValue("url"), r.FormValue("video_url"))
		body.Platform = r.FormValue("platform")
	}

	p, err := platform.Parse(body.Platform)
	if err != nil {
		return catcher.Request{}, err
	}

	return catcher.Request{
		URL:      strings.TrimSpace(body.URL),
		Platform: p,
		User:     userOf(r),
	}, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", s.indexData(r, "", ""))
}

// handleDownload is resolve_and_stream: the chosen format is relayed as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stream, err := s.Service.Open(r.Context(), req)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	defer stream.Close()

	// headers are gone once streaming starts, so a failure here can only be logged
	if n, err := stream.Respond(w); err != nil {
		log.WithFields(log.Fields{"url": req.URL, "written": n}).Warnf("relay aborted: %s", err)
	}
}

type resolveResponse struct {
	Platform string `json:"platform"`
	*media.Result
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.Service.Resolve(r.Context(), req)
	if err != nil {
		s.failErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		Platform: platform.Resolve(req.URL, req.Platform).String(),
		Result:   result,
	})
}

type persistResponse struct {
	Success      bool   `json:"success"`
	DownloadLink string `json:"download_link"`
	Filename     string `json:"filename"`
}

// handlePersist downloads to disk through the extractor and answers with a link to the file.
func (s *Server) handlePersist(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	path, err := s.Service.Download(r.Context(), req, s.Downloads)
	if err != nil {
		s.failErr(w, r, err)
		return
	}

	name := filepath.Base(path)
	writeJSON(w, http.StatusOK, persistResponse{
		Success:      true,
		DownloadLink: "/files/" + name,
		Filename:     name,
	})
}

// handleFile serves a persisted download. Names must be a single plain path element.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `\/`) {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.Downloads, name)
	f, err := filesystem.API().Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.History.Get()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, lo.Reverse(entries))
}

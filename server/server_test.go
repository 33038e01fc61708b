package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/credential"
	"github.com/videocatcher/videocatcher/extract"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/format"
	"github.com/videocatcher/videocatcher/history"
	"github.com/videocatcher/videocatcher/media"
	"github.com/videocatcher/videocatcher/relay"
	"golang.org/x/time/rate"
)

const cookieFile = ".youtube.com\tTRUE\t/\tTRUE\t0\tSID\tabc\n"

type fakeBackend struct {
	info *media.Info
}

func (f *fakeBackend) Extract(context.Context, string, extract.Options) (*media.Info, error) {
	return f.info, nil
}

func (f *fakeBackend) Download(_ context.Context, _, dir string, _ extract.Options) (string, error) {
	path := dir + "/abc123_Clip.mp4"
	return path, afero.WriteFile(filesystem.API(), path, []byte("persisted"), 0o644)
}

func newServer(originURL string) *Server {
	filesystem.SetMemMapFs()

	store := credential.New("/cookies")
	store.Window = 15 * time.Minute
	store.MaxBytes = 1 << 20

	log := history.Open("/history.json")

	orchestrator := extract.New(&fakeBackend{info: &media.Info{
		Title: "Clip",
		Formats: []media.Format{{
			ID: "22", URL: originURL + "/22.mp4", Ext: "mp4",
			Height: 720, FPS: 30, VideoCodec: "avc1", AudioCodec: "mp4a",
		}},
	}})
	orchestrator.Config = extract.Config{}

	service := &catcher.Service{
		Credentials:  store,
		Orchestrator: orchestrator,
		Selector:     &format.Selector{Tiers: format.Tiers, Scoring: format.Scoring{DetailHeight: 720, DetailMultiplier: 2, DefaultFPS: 30}},
		Streamer:     &relay.Streamer{Client: http.DefaultClient, ChunkSize: 1024},
		History:      log,
	}

	return &Server{
		Service:        service,
		History:        log,
		Credentials:    store,
		Downloads:      "/downloads",
		AdminPassword:  "hunter2",
		UploadToken:    "sync-token",
		SessionTTL:     time.Hour,
		MaxUploadBytes: 1 << 20,
		sessions:       cache.New(time.Hour, time.Hour),
		limiters:       cache.New(time.Hour, time.Hour),
	}
}

func multipartBody(field, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile(field, "cookies.txt")
	_, _ = fw.Write([]byte(content))
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOperational(t *testing.T) {
	Convey("Given a server", t, func() {
		h := newServer("http://127.0.0.1:1").Handler()

		Convey("healthz answers ok", func() {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual, "ok")
		})

		Convey("metrics are exposed", func() {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "go_goroutines")
		})

		Convey("The index page issues a user cookie", func() {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "<form")

			cookies := rec.Result().Cookies()
			So(cookies, ShouldNotBeEmpty)
			So(cookies[0].Name, ShouldEqual, UserCookie)
			So(credential.ValidUser(cookies[0].Value), ShouldBeTrue)
		})

		Convey("A known user cookie is kept", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: UserCookie, Value: "alice"})
			rec := serve(h, req)
			So(rec.Result().Cookies(), ShouldBeEmpty)
		})
	})
}

func TestDownload(t *testing.T) {
	Convey("Given an origin and a server resolving to it", t, func() {
		payload := bytes.Repeat([]byte("v"), 4096)
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "video/mp4")
			_, _ = w.Write(payload)
		}))
		defer origin.Close()

		s := newServer(origin.URL)
		h := s.Handler()

		Convey("The form download streams the file as an attachment", func() {
			form := url.Values{"url": {"https://youtu.be/abc"}}
			req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := serve(h, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.Bytes(), ShouldResemble, payload)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "video/mp4")
			So(rec.Header().Get("Content-Disposition"), ShouldContainSubstring, "Clip.mp4")

			entries, err := s.History.Get()
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
		})

		Convey("The resolve API describes the chosen format", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/resolve", strings.NewReader(`{"url":"https://youtu.be/abc"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(h, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			var body map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["platform"], ShouldEqual, "youtube")
			So(body["title"], ShouldEqual, "Clip")
		})

		Convey("Unsupported platforms are a 400 with a kind", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/resolve", strings.NewReader(`{"url":"https://vimeo.com/1"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(h, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Body.String(), ShouldContainSubstring, "unsupported_platform")
		})

		Convey("An empty URL is rejected", func() {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/download?url=", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Persisted downloads are served by name", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/download", strings.NewReader(`{"url":"https://youtu.be/abc"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(h, req)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body persistResponse
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Success, ShouldBeTrue)
			So(body.DownloadLink, ShouldEqual, "/files/abc123_Clip.mp4")

			rec = serve(h, httptest.NewRequest(http.MethodGet, body.DownloadLink, nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual, "persisted")

			Convey("and names escaping the directory are not", func() {
				for _, path := range []string{"/files/..%2Fhistory.json", "/files/.hidden", "/files/missing.mp4"} {
					rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
					So(rec.Code, ShouldEqual, http.StatusNotFound)
				}
			})
		})

		Convey("Clients over the rate are refused", func() {
			s.Rate = rate.Every(time.Hour)
			s.Burst = 1

			do := func() int {
				req := httptest.NewRequest(http.MethodGet, "/download?url=", nil)
				req.RemoteAddr = "10.0.0.1:5555"
				return serve(h, req).Code
			}

			So(do(), ShouldEqual, http.StatusBadRequest)
			So(do(), ShouldEqual, http.StatusTooManyRequests)

			Convey("without affecting other clients", func() {
				req := httptest.NewRequest(http.MethodGet, "/download?url=", nil)
				req.RemoteAddr = "10.0.0.2:5555"
				So(serve(h, req).Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("An active client keeps its limiter past the idle expiry", func() {
			s.Rate = rate.Every(time.Hour)
			s.Burst = 1
			s.limiters = cache.New(200*time.Millisecond, time.Hour)

			do := func() int {
				req := httptest.NewRequest(http.MethodGet, "/download?url=", nil)
				req.RemoteAddr = "10.0.0.3:5555"
				return serve(h, req).Code
			}

			So(do(), ShouldEqual, http.StatusBadRequest)
			time.Sleep(120 * time.Millisecond)
			So(do(), ShouldEqual, http.StatusTooManyRequests)
			time.Sleep(120 * time.Millisecond)
			So(do(), ShouldEqual, http.StatusTooManyRequests)
		})
	})
}

func TestCookies(t *testing.T) {
	Convey("Given a server", t, func() {
		s := newServer("http://127.0.0.1:1")
		h := s.Handler()

		Convey("A user uploads and deletes their own cookies", func() {
			body, contentType := multipartBody("cookies", cookieFile)
			req := httptest.NewRequest(http.MethodPost, "/api/cookies", body)
			req.Header.Set("Content-Type", contentType)
			req.AddCookie(&http.Cookie{Name: UserCookie, Value: "alice"})
			rec := serve(h, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(s.Credentials.Status("alice").Present, ShouldBeTrue)

			req = httptest.NewRequest(http.MethodDelete, "/api/cookies", nil)
			req.AddCookie(&http.Cookie{Name: UserCookie, Value: "alice"})
			So(serve(h, req).Code, ShouldEqual, http.StatusOK)
			So(s.Credentials.Status("alice").Present, ShouldBeFalse)
		})

		Convey("Malformed uploads are rejected", func() {
			body, contentType := multipartBody("cookies", "not cookies")
			req := httptest.NewRequest(http.MethodPost, "/api/cookies", body)
			req.Header.Set("Content-Type", contentType)
			So(serve(h, req).Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("The token upload requires the configured token", func() {
			upload := func(token string) int {
				body, contentType := multipartBody("file", cookieFile)
				req := httptest.NewRequest(http.MethodPost, "/api/upload_cookies", body)
				req.Header.Set("Content-Type", contentType)
				if token != "" {
					req.Header.Set("X-Upload-Token", token)
				}
				return serve(h, req).Code
			}

			So(upload(""), ShouldEqual, http.StatusForbidden)
			So(upload("wrong"), ShouldEqual, http.StatusForbidden)
			So(s.Credentials.GlobalStatus().Present, ShouldBeFalse)

			So(upload("sync-token"), ShouldEqual, http.StatusOK)
			So(s.Credentials.GlobalStatus().Present, ShouldBeTrue)

			Convey("and is disabled without one", func() {
				s.UploadToken = ""
				So(upload("sync-token"), ShouldEqual, http.StatusForbidden)
			})
		})
	})
}

func TestAdmin(t *testing.T) {
	Convey("Given a server with an admin password", t, func() {
		s := newServer("http://127.0.0.1:1")
		h := s.Handler()

		login := func(password string) *httptest.ResponseRecorder {
			form := url.Values{"password": {password}}
			req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return serve(h, req)
		}

		Convey("The panel redirects anonymous visitors to the login page", func() {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/admin/", nil))
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(rec.Header().Get("Location"), ShouldStartWith, "/admin/login")
		})

		Convey("A wrong password is refused", func() {
			So(login("nope").Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("A correct password opens a session", func() {
			rec := login("hunter2")
			So(rec.Code, ShouldEqual, http.StatusSeeOther)

			var session *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == SessionCookie {
					session = c
				}
			}
			So(session, ShouldNotBeNil)

			req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			req.AddCookie(session)
			rec = serve(h, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "Shared cookies")

			Convey("which can upload and remove the global cookies", func() {
				body, contentType := multipartBody("cookies", cookieFile)
				req := httptest.NewRequest(http.MethodPost, "/admin/cookies", body)
				req.Header.Set("Content-Type", contentType)
				req.AddCookie(session)
				So(serve(h, req).Code, ShouldEqual, http.StatusSeeOther)
				So(s.Credentials.GlobalStatus().Present, ShouldBeTrue)

				req = httptest.NewRequest(http.MethodPost, "/admin/cookies/delete", nil)
				req.AddCookie(session)
				So(serve(h, req).Code, ShouldEqual, http.StatusSeeOther)
				So(s.Credentials.GlobalStatus().Present, ShouldBeFalse)
			})
		})

		Convey("Login is disabled without a password", func() {
			s.AdminPassword = ""
			So(login("").Code, ShouldEqual, http.StatusForbidden)
		})
	})
}

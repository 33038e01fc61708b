package credential

import (
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/platform"
)

const cookies = "# Netscape HTTP Cookie File\n" +
	".youtube.com\tTRUE\t/\tTRUE\t1893456000\tSID\tabc\n" +
	"#HttpOnly_.youtube.com\tTRUE\t/\tTRUE\t1893456000\tHSID\tdef\n"

// clock is a settable time source.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newStore(c *clock) *Store {
	filesystem.SetMemMapFs()
	s := New("/cookies")
	s.Window = 15 * time.Minute
	s.MaxBytes = 1 << 20
	s.Required = nil
	s.Now = c.Now
	return s
}

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		So(Validate([]byte(cookies)), ShouldBeNil)
		So(errors.Is(Validate([]byte("")), ErrMalformed), ShouldBeTrue)
		So(errors.Is(Validate([]byte("# only a comment\n")), ErrMalformed), ShouldBeTrue)
		So(errors.Is(Validate([]byte("{\"cookies\": []}")), ErrMalformed), ShouldBeTrue)
		So(Validate([]byte(strings.ReplaceAll(cookies, "\n", "\r\n"))), ShouldBeNil)
	})
}

func TestValidUser(t *testing.T) {
	Convey("ValidUser", t, func() {
		So(ValidUser("0b6c1f0e-7a49-4bb6-9f0c-1c1d2f3e4a5b"), ShouldBeTrue)
		So(ValidUser("alice_01"), ShouldBeTrue)
		So(ValidUser(""), ShouldBeFalse)
		So(ValidUser("../etc"), ShouldBeFalse)
		So(ValidUser("a/b"), ShouldBeFalse)
		So(ValidUser(strings.Repeat("a", 65)), ShouldBeFalse)
	})
}

func TestExpiry(t *testing.T) {
	Convey("Given a user credential uploaded at T", t, func() {
		start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		c := &clock{now: start}
		s := newStore(c)

		status, err := s.Upload("alice", strings.NewReader(cookies))
		So(err, ShouldBeNil)
		So(status.Present, ShouldBeTrue)
		So(status.UploadedAt.Equal(start), ShouldBeTrue)

		Convey("It is still valid at T+window", func() {
			c.now = start.Add(15 * time.Minute)
			ref, err := s.Resolve("alice", platform.YouTube)
			So(err, ShouldBeNil)
			So(ref.Scope, ShouldEqual, ScopeUser)
			So(ref.Path, ShouldEqual, s.UserPath("alice"))
		})

		Convey("At T+window+1s it is expired", func() {
			c.now = start.Add(15*time.Minute + time.Second)
			So(s.Status("alice").Expired, ShouldBeTrue)

			Convey("A platform requiring credentials fails", func() {
				s.Required = []platform.Platform{platform.YouTube}
				_, err := s.Resolve("alice", platform.YouTube)
				So(failure.KindOf(err), ShouldEqual, failure.CredentialExpired)
			})

			Convey("Other platforms fall back to no cookies", func() {
				ref, err := s.Resolve("alice", platform.TikTok)
				So(err, ShouldBeNil)
				So(ref, ShouldResemble, Ref{})
			})

			Convey("Other platforms fall back to global cookies when present", func() {
				_, err := s.UploadGlobal(strings.NewReader(cookies))
				So(err, ShouldBeNil)

				ref, err := s.Resolve("alice", platform.TikTok)
				So(err, ShouldBeNil)
				So(ref.Scope, ShouldEqual, ScopeGlobal)
			})

			Convey("Purge removes the file", func() {
				purged, err := s.Purge()
				So(err, ShouldBeNil)
				So(purged, ShouldEqual, 1)
				So(s.Status("alice").Present, ShouldBeFalse)
			})
		})

		Convey("Re-uploading restarts the window", func() {
			c.now = start.Add(time.Hour)
			_, err := s.Upload("alice", strings.NewReader(cookies))
			So(err, ShouldBeNil)
			So(s.Status("alice").Expired, ShouldBeFalse)
		})
	})
}

func TestResolveWithoutUser(t *testing.T) {
	Convey("Given no user credential", t, func() {
		s := newStore(&clock{now: time.Now()})

		Convey("A required platform fails with CredentialMissing", func() {
			s.Required = []platform.Platform{platform.Instagram}
			_, err := s.Resolve("", platform.Instagram)
			So(failure.KindOf(err), ShouldEqual, failure.CredentialMissing)
		})

		Convey("Other platforms get no cookies", func() {
			ref, err := s.Resolve("bob", platform.YouTube)
			So(err, ShouldBeNil)
			So(ref.Scope, ShouldEqual, ScopeNone)
		})

		Convey("Global cookies never expire", func() {
			_, err := s.UploadGlobal(strings.NewReader(cookies))
			So(err, ShouldBeNil)

			s.Now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
			ref, err := s.Resolve("", platform.YouTube)
			So(err, ShouldBeNil)
			So(ref.Scope, ShouldEqual, ScopeGlobal)
			So(ref.Path, ShouldEqual, s.GlobalPath())
		})
	})
}

func TestUploadRejections(t *testing.T) {
	Convey("Uploads are checked", t, func() {
		s := newStore(&clock{now: time.Now()})

		Convey("Invalid user ids", func() {
			_, err := s.Upload("../../x", strings.NewReader(cookies))
			So(err, ShouldEqual, ErrInvalidUser)
		})

		Convey("Oversized files", func() {
			s.MaxBytes = 10
			_, err := s.Upload("alice", strings.NewReader(cookies))
			So(err, ShouldNotBeNil)
			So(s.Status("alice").Present, ShouldBeFalse)
		})

		Convey("Malformed files", func() {
			_, err := s.Upload("alice", strings.NewReader("hello"))
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
			So(s.Status("alice").Present, ShouldBeFalse)
		})
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		s := newStore(&clock{now: time.Now()})
		_, err := s.Upload("alice", strings.NewReader(cookies))
		So(err, ShouldBeNil)

		So(s.Delete("alice"), ShouldBeNil)
		So(s.Status("alice").Present, ShouldBeFalse)

		Convey("Deleting twice is fine", func() {
			So(s.Delete("alice"), ShouldBeNil)
			So(s.DeleteGlobal(), ShouldBeNil)
		})

		Convey("Users lists remaining files", func() {
			_, err := s.Upload("bob", strings.NewReader(cookies))
			So(err, ShouldBeNil)
			users, err := s.Users()
			So(err, ShouldBeNil)
			So(users, ShouldResemble, []string{"bob"})
		})
	})
}

// Package credential stores exported browser cookies uploaded per user or globally by the administrator,
// and decides which of them an extraction runs with.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/platform"
	"github.com/videocatcher/videocatcher/where"
)

const (
	globalFile  = "cookies.txt"
	usersDir    = "users"
	recordFile  = "uploads.json"
	globalEntry = "@global"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ErrInvalidUser is returned for user identifiers that are not safe as a single file name.
var ErrInvalidUser = errors.New("invalid user identifier")

// Scope tells where a resolved credential comes from.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeUser
	ScopeGlobal
)

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeGlobal:
		return "global"
	default:
		return "none"
	}
}

// Ref points at the cookie file an extraction should use. The zero Ref means "no cookies".
type Ref struct {
	Path  string
	Scope Scope
}

// Status describes a stored cookie file.
type Status struct {
	Present    bool      `json:"present"`
	UploadedAt time.Time `json:"uploaded_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Expired    bool      `json:"expired"`
}

// Store keeps cookie files under one directory.
// The upload record is guarded by a single mutex; writes to a user's file take that user's lock.
type Store struct {
	// Window is how long a user upload stays valid. Global cookies never expire.
	Window time.Duration
	// Required lists the platforms that refuse to run without a valid credential.
	Required []platform.Platform
	// MaxBytes caps an upload.
	MaxBytes int64
	// Now is the clock, replaceable in tests.
	Now func() time.Time

	dir     string
	mu      sync.Mutex
	locks   *xsync.MapOf[string, *sync.Mutex]
	uploads *gache.Cache[map[string]time.Time]
}

// New returns a store rooted at dir, configured by the credentials.* settings.
func New(dir string) *Store {
	required := lo.Map(viper.GetStringSlice(key.CredentialsRequiredPlatform), func(name string, _ int) platform.Platform {
		return platform.Platform(strings.ToLower(strings.TrimSpace(name)))
	})

	return &Store{
		Window:   time.Duration(viper.GetInt(key.CredentialsValidityMinutes)) * time.Minute,
		Required: required,
		MaxBytes: viper.GetInt64(key.ServerMaxUploadBytes),
		Now:      time.Now,
		dir:      dir,
		locks:    xsync.NewMapOf[string, *sync.Mutex](),
		uploads: gache.New[map[string]time.Time](&gache.Options{
			Path:       filepath.Join(dir, recordFile),
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

// Default returns the process-wide store rooted at the cookies directory, created on first use.
func Default() *Store {
	defaultStoreOnce.Do(func() {
		defaultStore = New(where.Cookies())
	})
	return defaultStore
}

// ValidUser reports whether id can name a user's cookie file.
func ValidUser(id string) bool {
	return userIDPattern.MatchString(id)
}

// GlobalPath returns the location of the administrator-managed cookie file.
func (s *Store) GlobalPath() string {
	return filepath.Join(s.dir, globalFile)
}

// UserPath returns the location of a user's cookie file.
func (s *Store) UserPath(user string) string {
	return filepath.Join(s.dir, usersDir, user+".txt")
}

// Requires reports whether p refuses to run without a valid credential.
func (s *Store) Requires(p platform.Platform) bool {
	return lo.Contains(s.Required, p)
}

func (s *Store) lock(user string) *sync.Mutex {
	mu, _ := s.locks.LoadOrCompute(user, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	return mu
}

func (s *Store) record() (map[string]time.Time, error) {
	record, expired, err := s.uploads.Get()
	if err != nil {
		return nil, fmt.Errorf("read upload record: %w", err)
	}
	if expired || record == nil {
		return make(map[string]time.Time), nil
	}
	return record, nil
}

// touch updates the upload record under the store mutex. A zero time removes the entry.
func (s *Store) touch(entry string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.record()
	if err != nil {
		return err
	}

	if at.IsZero() {
		delete(record, entry)
	} else {
		record[entry] = at
	}
	return s.uploads.Set(record)
}

// uploadedAt returns when entry was uploaded, falling back to the file's modification time
// for files placed on disk by hand.
func (s *Store) uploadedAt(entry, path string) (time.Time, bool) {
	info, err := filesystem.API().Stat(path)
	if err != nil {
		return time.Time{}, false
	}

	s.mu.Lock()
	record, err := s.record()
	s.mu.Unlock()
	if err == nil {
		if at, ok := record[entry]; ok {
			return at, true
		}
	}
	return info.ModTime(), true
}

// Status reports the state of a user's cookie file.
func (s *Store) Status(user string) Status {
	if !ValidUser(user) {
		return Status{}
	}

	at, ok := s.uploadedAt(user, s.UserPath(user))
	if !ok {
		return Status{}
	}

	expires := at.Add(s.Window)
	return Status{
		Present:    true,
		UploadedAt: at,
		ExpiresAt:  expires,
		Expired:    s.Now().After(expires),
	}
}

// GlobalStatus reports the state of the global cookie file, which never expires.
func (s *Store) GlobalStatus() Status {
	at, ok := s.uploadedAt(globalEntry, s.GlobalPath())
	if !ok {
		return Status{}
	}
	return Status{Present: true, UploadedAt: at}
}

// Resolve picks the cookie file for an extraction on p by user.
//
// A valid user upload wins. An expired one fails with CredentialExpired when p requires
// credentials and is ignored otherwise. The global file comes next. With nothing usable,
// a required platform fails with CredentialMissing and any other gets the zero Ref.
func (s *Store) Resolve(user string, p platform.Platform) (Ref, error) {
	required := s.Requires(p)

	if user != "" {
		status := s.Status(user)
		switch {
		case status.Present && !status.Expired:
			return Ref{Path: s.UserPath(user), Scope: ScopeUser}, nil
		case status.Present && required:
			return Ref{}, failure.Newf(failure.CredentialExpired, "cookies uploaded at %s expired at %s",
				status.UploadedAt.Format(time.RFC3339), status.ExpiresAt.Format(time.RFC3339))
		case status.Present:
			log.WithFields(log.Fields{"user": user, "platform": p}).Warn("user cookies expired, falling back")
		}
	}

	if s.GlobalStatus().Present {
		return Ref{Path: s.GlobalPath(), Scope: ScopeGlobal}, nil
	}

	if required {
		return Ref{}, failure.Newf(failure.CredentialMissing, "%s requires cookies", p.Title())
	}

	log.WithFields(log.Fields{"platform": p}).Warn("no cookies available, some videos may be restricted")
	return Ref{}, nil
}

// notExist treats missing files as already deleted.
func notExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

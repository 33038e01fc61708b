package credential

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/log"
)

// Delete removes user's cookie file. Deleting a missing file is not an error.
func (s *Store) Delete(user string) error {
	if !ValidUser(user) {
		return ErrInvalidUser
	}

	mu := s.lock(user)
	mu.Lock()
	defer mu.Unlock()

	if err := notExist(filesystem.API().Remove(s.UserPath(user))); err != nil {
		return err
	}
	return s.touch(user, time.Time{})
}

// DeleteGlobal removes the global cookie file.
func (s *Store) DeleteGlobal() error {
	mu := s.lock(globalEntry)
	mu.Lock()
	defer mu.Unlock()

	if err := notExist(filesystem.API().Remove(s.GlobalPath())); err != nil {
		return err
	}
	return s.touch(globalEntry, time.Time{})
}

// Users lists the identifiers that have a cookie file.
func (s *Store) Users() ([]string, error) {
	entries, err := filesystem.API().ReadDir(filepath.Join(s.dir, usersDir))
	if err != nil {
		return nil, notExist(err)
	}

	var users []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".txt" {
			continue
		}
		if user := strings.TrimSuffix(name, ".txt"); ValidUser(user) {
			users = append(users, user)
		}
	}
	return users, nil
}

// Purge deletes every expired user cookie file and returns how many were removed.
func (s *Store) Purge() (int, error) {
	users, err := s.Users()
	if err != nil {
		return 0, err
	}

	var purged int
	for _, user := range users {
		if !s.Status(user).Expired {
			continue
		}
		if err := s.Delete(user); err != nil {
			return purged, err
		}
		purged++
	}

	if purged > 0 {
		log.Infof("purged %d expired cookie file(s)", purged)
	}
	return purged, nil
}

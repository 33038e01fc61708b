package credential

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/log"
)

// ErrMalformed is returned for uploads that are not Netscape cookie files.
var ErrMalformed = errors.New("not a Netscape cookie file")

// Validate checks that data looks like a Netscape cookie file: every line that is not blank
// or a comment has seven tab-separated fields, and at least one such line exists.
func Validate(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	var cookies, lineNo int
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#HttpOnly_") {
			continue
		}

		if fields := strings.Split(line, "\t"); len(fields) != 7 {
			return fmt.Errorf("%w: line %d has %d fields, expected 7", ErrMalformed, lineNo, len(fields))
		}
		cookies++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if cookies == 0 {
		return fmt.Errorf("%w: no cookies found", ErrMalformed)
	}
	return nil
}

// read buffers an upload of at most MaxBytes and validates it.
func (s *Store) read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.MaxBytes {
		return nil, fmt.Errorf("upload exceeds %d bytes", s.MaxBytes)
	}
	return data, Validate(data)
}

// Upload replaces user's cookie file and restarts its validity window.
func (s *Store) Upload(user string, r io.Reader) (Status, error) {
	if !ValidUser(user) {
		return Status{}, ErrInvalidUser
	}

	data, err := s.read(r)
	if err != nil {
		return Status{}, err
	}

	mu := s.lock(user)
	mu.Lock()
	defer mu.Unlock()

	if _, err := filesystem.WriteAtomic(s.UserPath(user), bytes.NewReader(data), s.MaxBytes); err != nil {
		return Status{}, fmt.Errorf("store cookies: %w", err)
	}
	if err := s.touch(user, s.Now()); err != nil {
		return Status{}, err
	}

	log.WithFields(log.Fields{"user": user, "bytes": len(data)}).Info("user cookies uploaded")
	return s.Status(user), nil
}

// UploadGlobal replaces the administrator-managed cookie file.
func (s *Store) UploadGlobal(r io.Reader) (Status, error) {
	data, err := s.read(r)
	if err != nil {
		return Status{}, err
	}

	mu := s.lock(globalEntry)
	mu.Lock()
	defer mu.Unlock()

	if _, err := filesystem.WriteAtomic(s.GlobalPath(), bytes.NewReader(data), s.MaxBytes); err != nil {
		return Status{}, fmt.Errorf("store cookies: %w", err)
	}
	if err := s.touch(globalEntry, s.Now()); err != nil {
		return Status{}, err
	}

	log.WithFields(log.Fields{"bytes": len(data)}).Info("global cookies uploaded")
	return s.GlobalStatus(), nil
}

// Package repository maps each content collection onto the document store.
// Repositories own identity (ids, timestamps, unique keys) while shapes live
// in package model. Handlers distinguish failures with the sentinel errors
// below via errors.Is.
package repository

import (
	"errors"

	"github.com/google/uuid"

	"github.com/srinbasjoys/TEAP/internal/docstore"
)

// ErrNotFound is returned when the addressed slug, page or id does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a create would duplicate a unique key such as
// a blog slug or SEO page. Handlers should translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering an admin whose email is taken.
var ErrEmailExists = errors.New("email already exists")

// Collection names.
const (
	CollAdmins      = "admins"
	CollSEOSettings = "seo_settings"
	CollRobotsTxt   = "robots_txt"
	CollBlogs       = "blogs"
	CollKeywords    = "keywords"
	CollContacts    = "contact_submissions"
	CollLogos       = "logos"
)

func newID() string { return uuid.NewString() }

func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

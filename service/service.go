// Package service implements the user, post and tag operations on top of a
// store.Store. Each exported operation runs in exactly one store transaction.
package service

import (
	"errors"
	"fmt"
	"log/slog"

	"blogly/models"
	"blogly/store"
)

var ErrUserHasPosts = errors.New("user still has posts")

// ValidationError reports a required field submitted empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// DeletePolicy decides what deleting a user does to the posts they own.
type DeletePolicy string

const (
	// DeleteRestrict refuses to delete a user that still owns posts.
	DeleteRestrict DeletePolicy = "restrict"
	// DeleteCascade deletes the user's posts along with the user.
	DeleteCascade DeletePolicy = "cascade"
)

func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case DeleteRestrict, "":
		return DeleteRestrict, nil
	case DeleteCascade:
		return DeleteCascade, nil
	}
	return "", fmt.Errorf("unknown delete policy %q", s)
}

type Options struct {
	DefaultImageURL string
	DeletePolicy    DeletePolicy
}

type Service struct {
	store        store.Store
	log          *slog.Logger
	defaultImage string
	deletePolicy DeletePolicy
}

func New(s store.Store, log *slog.Logger, opts Options) *Service {
	if opts.DefaultImageURL == "" {
		opts.DefaultImageURL = models.DefaultImageURL
	}
	if opts.DeletePolicy == "" {
		opts.DeletePolicy = DeleteRestrict
	}
	return &Service{
		store:        s,
		log:          log,
		defaultImage: opts.DefaultImageURL,
		deletePolicy: opts.DeletePolicy,
	}
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field}
	}
	return nil
}

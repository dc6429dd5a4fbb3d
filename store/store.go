// Package store is the data-access layer for users, posts and tags.
package store

import (
	"context"

	"blogly/models"
)

// Store is the data-access handle handed to the service layer. Every method
// runs against whatever connection or transaction the Store is bound to;
// Transaction hands fn a Store bound to a fresh transaction that commits when
// fn returns nil and rolls back otherwise.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error

	GetPost(ctx context.Context, id uint) (*models.Post, error)
	CountPostsByUser(ctx context.Context, userID uint) (int64, error)
	CreatePost(ctx context.Context, p *models.Post) error
	UpdatePost(ctx context.Context, p *models.Post) error
	ReplacePostTags(ctx context.Context, p *models.Post, tags []models.Tag) error
	DeletePost(ctx context.Context, id uint) error
	DeletePostsByUser(ctx context.Context, userID uint) error

	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	FindTags(ctx context.Context, ids []uint) ([]models.Tag, error)
	CreateTag(ctx context.Context, t *models.Tag) error
	UpdateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, id uint) error
}

package service

import (
	"context"

	"blogly/models"
	"blogly/store"
)

type NewUser struct {
	FirstName string
	LastName  string
	ImageURL  string
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// Validate reports the first missing required field.
func (in NewUser) Validate() error {
	if err := required("first_name", in.FirstName); err != nil {
		return err
	}
	return required("last_name", in.LastName)
}

func (s *Service) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ImageURL == "" {
		in.ImageURL = s.defaultImage
	}

	u := &models.User{FirstName: in.FirstName, LastName: in.LastName, ImageURL: in.ImageURL}
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		return tx.CreateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user created", "user_id", u.ID)
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	var u *models.User
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if u, err = tx.GetUser(ctx, id); err != nil {
			return err
		}
		patch.Apply(u)
		return tx.UpdateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetUser(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountPostsByUser(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			if s.deletePolicy != DeleteCascade {
				return ErrUserHasPosts
			}
			if err := tx.DeletePostsByUser(ctx, id); err != nil {
				return err
			}
		}
		return tx.DeleteUser(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", "user_id", id, "policy", string(s.deletePolicy))
	return nil
}

package service

import (
	"context"

	"blogly/models"
	"blogly/store"
)

func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.store.ListTags(ctx)
}

func (s *Service) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.store.GetTag(ctx, id)
}

// CreateTag inserts a tag. A name already in use comes back as
// store.ErrDuplicate from the unique index.
func (s *Service) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	t := &models.Tag{Name: name}
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		return tx.CreateTag(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTag(ctx context.Context, id uint, patch models.TagPatch) (*models.Tag, error) {
	var t *models.Tag
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if t, err = tx.GetTag(ctx, id); err != nil {
			return err
		}
		patch.Apply(t)
		return tx.UpdateTag(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTag(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeleteTag(ctx, id)
	})
}

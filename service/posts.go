package service

import (
	"context"
	"time"

	"blogly/models"
	"blogly/store"
)

type NewPost struct {
	Title   string
	Content string
	TagIDs  []uint
}

func (s *Service) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.store.GetPost(ctx, id)
}

// resolveTags keeps only the ids that name an existing tag.
func resolveTags(ctx context.Context, tx store.Store, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return tx.FindTags(ctx, ids)
}

func (s *Service) CreatePost(ctx context.Context, userID uint, in NewPost) (*models.Post, error) {
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	if err := required("content", in.Content); err != nil {
		return nil, err
	}

	p := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: time.Now(),
		CreatorID: userID,
	}
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		tags, err := resolveTags(ctx, tx, in.TagIDs)
		if err != nil {
			return err
		}
		p.Tags = tags
		return tx.CreatePost(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "post created", "post_id", p.ID, "user_id", userID, "tags", len(p.Tags))
	return p, nil
}

// UpdatePost applies patch and replaces the post's tags with the resolved
// patch.TagIDs.
func (s *Service) UpdatePost(ctx context.Context, id uint, patch models.PostPatch) (*models.Post, error) {
	var p *models.Post
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if p, err = tx.GetPost(ctx, id); err != nil {
			return err
		}
		patch.Apply(p)
		if err := tx.UpdatePost(ctx, p); err != nil {
			return err
		}
		tags, err := resolveTags(ctx, tx, patch.TagIDs)
		if err != nil {
			return err
		}
		return tx.ReplacePostTags(ctx, p, tags)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes the post and its tag links and returns the id of the
// user that created it.
func (s *Service) DeletePost(ctx context.Context, id uint) (uint, error) {
	var creatorID uint
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		p, err := tx.GetPost(ctx, id)
		if err != nil {
			return err
		}
		creatorID = p.CreatorID
		return tx.DeletePost(ctx, id)
	})
	if err != nil {
		return 0, err
	}
	s.log.InfoContext(ctx, "post deleted", "post_id", id, "user_id", creatorID)
	return creatorID, nil
}

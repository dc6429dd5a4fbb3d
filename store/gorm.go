package store

import (
	"context"

	"blogly/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm is the relational Store backed by gorm.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func (s *Gorm) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("last_name").Order("first_name").Find(&users).Error
	if err != nil {
		return nil, translate("ListUsers", "users", err)
	}
	return users, nil
}

func (s *Gorm) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&user, id).Error
	if err != nil {
		return nil, translate("GetUser", "users", err)
	}
	return &user, nil
}

func (s *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error
	return translate("CreateUser", "users", err)
}

func (s *Gorm) UpdateUser(ctx context.Context, u *models.User) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"image_url":  u.ImageURL,
	})
	if res.Error != nil {
		return translate("UpdateUser", "users", res.Error)
	}
	return nil
}

func (s *Gorm) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate("DeleteUser", "users", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("DeleteUser", "users", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Gorm) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("name")
		}).
		First(&post, id).Error
	if err != nil {
		return nil, translate("GetPost", "posts", err)
	}
	return &post, nil
}

func (s *Gorm) CountPostsByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("creator_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, translate("CountPostsByUser", "posts", err)
	}
	return n, nil
}

// CreatePost inserts p and links it to p.Tags, which must already exist.
func (s *Gorm) CreatePost(ctx context.Context, p *models.Post) error {
	tags := p.Tags
	db := s.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		return translate("CreatePost", "posts", err)
	}
	if len(tags) == 0 {
		return nil
	}
	if err := db.Model(p).Association("Tags").Replace(tags); err != nil {
		return translate("CreatePost", "posttags", err)
	}
	p.Tags = tags
	return nil
}

func (s *Gorm) UpdatePost(ctx context.Context, p *models.Post) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", p.ID).Updates(map[string]any{
		"title":   p.Title,
		"content": p.Content,
	})
	return translate("UpdatePost", "posts", res.Error)
}

func (s *Gorm) ReplacePostTags(ctx context.Context, p *models.Post, tags []models.Tag) error {
	assoc := s.db.WithContext(ctx).Model(p).Association("Tags")
	var err error
	if len(tags) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(tags)
	}
	if err != nil {
		return translate("ReplacePostTags", "posttags", err)
	}
	p.Tags = tags
	return nil
}

func (s *Gorm) DeletePost(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
		return translate("DeletePost", "posttags", err)
	}
	res := db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return translate("DeletePost", "posts", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("DeletePost", "posts", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Gorm) DeletePostsByUser(ctx context.Context, userID uint) error {
	db := s.db.WithContext(ctx)
	owned := db.Model(&models.Post{}).Select("id").Where("creator_id = ?", userID)
	if err := db.Where("post_id IN (?)", owned).Delete(&models.PostTag{}).Error; err != nil {
		return translate("DeletePostsByUser", "posttags", err)
	}
	err := db.Where("creator_id = ?", userID).Delete(&models.Post{}).Error
	return translate("DeletePostsByUser", "posts", err)
}

func (s *Gorm) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, translate("ListTags", "tags", err)
	}
	return tags, nil
}

func (s *Gorm) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&tag, id).Error
	if err != nil {
		return nil, translate("GetTag", "tags", err)
	}
	return &tag, nil
}

// FindTags returns the tags whose ids appear in ids; unknown ids are skipped.
func (s *Gorm) FindTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&tags).Error; err != nil {
		return nil, translate("FindTags", "tags", err)
	}
	return tags, nil
}

func (s *Gorm) CreateTag(ctx context.Context, t *models.Tag) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
	return translate("CreateTag", "tags", err)
}

func (s *Gorm) UpdateTag(ctx context.Context, t *models.Tag) error {
	err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id = ?", t.ID).Update("name", t.Name).Error
	return translate("UpdateTag", "tags", err)
}

func (s *Gorm) DeleteTag(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
		return translate("DeleteTag", "posttags", err)
	}
	res := db.Delete(&models.Tag{}, id)
	if res.Error != nil {
		return translate("DeleteTag", "tags", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("DeleteTag", "tags", gorm.ErrRecordNotFound)
	}
	return nil
}

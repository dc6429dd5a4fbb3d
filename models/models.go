package models

import (
	"time"
)

const DefaultImageURL = "https://www.freeiconspng.com/uploads/icon-user-blue-symbol-people-person-generic--public-domain--21.png"

type User struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"type:text;not null"`
	LastName  string `gorm:"type:text;not null"`
	ImageURL  string `gorm:"type:text;not null"`
	Posts     []Post `gorm:"foreignKey:CreatorID"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	CreatorID uint      `gorm:"not null;index"`
	Creator   User      `gorm:"foreignKey:CreatorID"`
	Tags      []Tag     `gorm:"many2many:posttags;"`
}

type Tag struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Posts []Post `gorm:"many2many:posttags;"`
}

// PostTag is the posttags join row. gorm manages it through the many2many
// fields above; it is declared for migrations and raw cleanup.
type PostTag struct {
	PostID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}

func (PostTag) TableName() string { return "posttags" }

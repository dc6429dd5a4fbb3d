package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPatchApply(t *testing.T) {
	u := User{FirstName: "John", LastName: "Mack", ImageURL: "https://picsum.photos/200/300"}

	UserPatch{LastName: Present("Smith"), ImageURL: Present("")}.Apply(&u)

	assert.Equal(t, "John", u.FirstName)
	assert.Equal(t, "Smith", u.LastName)
	assert.Equal(t, "https://picsum.photos/200/300", u.ImageURL)
	assert.Equal(t, "John Smith", u.FullName())
}

func TestPostPatchApply(t *testing.T) {
	p := Post{Title: "old", Content: "body"}

	PostPatch{Title: Present("new")}.Apply(&p)

	assert.Equal(t, "new", p.Title)
	assert.Equal(t, "body", p.Content)
}

func TestTagPatchApply(t *testing.T) {
	tag := Tag{Name: "go"}

	TagPatch{}.Apply(&tag)
	assert.Equal(t, "go", tag.Name)

	TagPatch{Name: Present("golang")}.Apply(&tag)
	assert.Equal(t, "golang", tag.Name)
}

func TestPresent(t *testing.T) {
	assert.Nil(t, Present(""))
	if v := Present("x"); assert.NotNil(t, v) {
		assert.Equal(t, "x", *v)
	}
}

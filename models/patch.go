package models

// UserPatch carries the fields of a partial user update. Nil fields are left
// untouched.
type UserPatch struct {
	FirstName *string
	LastName  *string
	ImageURL  *string
}

func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.ImageURL != nil {
		u.ImageURL = *p.ImageURL
	}
}

// PostPatch carries a partial post update. TagIDs is not optional: the
// post's tag set is always replaced by whatever it resolves to.
type PostPatch struct {
	Title   *string
	Content *string
	TagIDs  []uint
}

func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
}

type TagPatch struct {
	Name *string
}

func (p TagPatch) Apply(t *Tag) {
	if p.Name != nil {
		t.Name = *p.Name
	}
}

// Present returns a pointer to s, or nil when s is empty.
func Present(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

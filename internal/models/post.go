package models

import "time"

// Post represents a forum post authored by exactly one user.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Title    string `gorm:"size:300;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Section  string `gorm:"size:64;not null;index" json:"section"`
	Slug     string `gorm:"size:96;uniqueIndex;not null" json:"slug"`
	// Published gates visibility in every listing. The column default lives
	// in the SQL migration; a gorm default tag here would make gorm omit
	// explicit false values on insert.
	Published bool `gorm:"not null" json:"published"`
	// AuthorName is not persisted; selected from the users join at query time.
	AuthorName string `gorm:"->;-:migration" json:"author_name"`
	Tags       []Tag  `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"-"`
	// TagNames is populated by the repository from Tags. Serialized as "tags",
	// always a list, never null.
	TagNames  []string  `gorm:"-" json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResolveTagNames fills TagNames from the loaded Tags association.
func (p *Post) ResolveTagNames() {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	p.TagNames = names
}

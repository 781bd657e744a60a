package models

import "time"

type TemplateCategory string

type TemplateKind string

const (
	CategoryProduct TemplateCategory = "product"
	CategoryDaily   TemplateCategory = "daily"
	CategoryGeneral TemplateCategory = "general"

	KindImage TemplateKind = "image"
	KindPDF   TemplateKind = "pdf"
)

func (c TemplateCategory) Valid() bool {
	return c == CategoryProduct || c == CategoryDaily || c == CategoryGeneral
}

// Template is the one shared resource: every authenticated principal can
// read it, only the uploader or an admin can change it. UploadedBy is
// nulled (not cascaded) when the uploader's account is deleted.
type Template struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	UploadedBy  *uint            `gorm:"index" json:"uploaded_by"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Category    TemplateCategory `gorm:"type:varchar(20);not null" json:"category"`
	Kind        TemplateKind     `gorm:"type:varchar(10);not null" json:"kind"`
	StorePath   string           `gorm:"size:512;not null" json:"store_path"`
	PublicURL   string           `gorm:"size:512" json:"public_url"`
	ThumbURL    string           `gorm:"size:512" json:"thumb_url"`
	ContentType string           `gorm:"size:128" json:"content_type"`
	SizeBytes   int64            `json:"size_bytes"`
}

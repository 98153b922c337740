package upload

import "time"

// Photo is one stored image. Rows go to the photo metadata table; the
// permit row itself only keeps the URLs.
type Photo struct {
	ID          string    `gorm:"column:id;primaryKey;size:32" json:"id"`
	FilePath    string    `gorm:"column:file_path" json:"path"`
	Bucket      string    `gorm:"column:bucket" json:"bucket"`
	Filename    string    `gorm:"column:filename" json:"filename"`
	MimeType    string    `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes   int64     `gorm:"column:size_bytes" json:"size_bytes"`
	URL         string    `gorm:"column:url" json:"url"`
	UploadedAt  time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
	SourceTable string    `gorm:"column:source_table" json:"source_table,omitempty"`
	WPRowID     *int64    `gorm:"column:wp_row_id" json:"wp_row_id,omitempty"`
	Category    string    `gorm:"column:category" json:"category,omitempty"`
}

func (Photo) TableName() string { return "photos" }

// Link ties metadata rows back to the record that owns the photos.
type Link struct {
	SourceTable string
	RowID       *int64
	Category    string
}

package domain

import "time"

// NewsAttachment references a stored file; the file itself lives in the
// external storage service.
type NewsAttachment struct {
	Filename     string `json:"filename" bson:"filename"`
	OriginalName string `json:"originalName" bson:"original_name"`
	MimeType     string `json:"mimetype" bson:"mimetype"`
	Size         int64  `json:"size" bson:"size"`
}

// News is a published announcement.
type News struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	Title       string           `json:"title" bson:"title"`
	Content     string           `json:"content" bson:"content"`
	Category    string           `json:"category" bson:"category"`
	Author      string           `json:"author" bson:"author"`
	IsPublished bool             `json:"isPublished" bson:"is_published"`
	Attachments []NewsAttachment `json:"attachments,omitempty" bson:"attachments,omitempty"`
	CreatedAt   time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" bson:"updated_at"`
}

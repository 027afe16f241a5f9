package handler

import "github.com/dbu-council/council-system/internal/core/domain"

type submitComplaintRequest struct {
	Title         string `json:"title"         validate:"required"`
	Description   string `json:"description"   validate:"required"`
	Category      string `json:"category"`
	ComplaintType string `json:"complaintType" validate:"omitempty,oneof=general academic"`
	Priority      string `json:"priority"      validate:"omitempty,oneof=low medium high urgent"`
}

type respondRequest struct {
	Message string `json:"message" validate:"required"`
}

type assignRequest struct {
	AssigneeID string `json:"assigneeId" validate:"required"`
}

type changeTypeRequest struct {
	ComplaintType string `json:"complaintType" validate:"required,oneof=general academic"`
}

type resolveRequest struct {
	Notes string `json:"notes"`
}

type attachDocumentRequest struct {
	Filename     string `json:"filename"     validate:"required"`
	OriginalName string `json:"originalName" validate:"required"`
	MimeType     string `json:"mimetype"     validate:"required"`
	Size         int64  `json:"size"         validate:"required,gt=0"`
}

func toComplaintType(s string) domain.ComplaintType {
	if s == "" {
		return ""
	}
	return domain.ComplaintType(s)
}

package handlers

import (
	"errors"

	"github.com/weecode/credenciamento-empresa/internal/models"
)

func validateCreateDTO(d CompanyCreateDTO) error {
	if d.CNPJ == "" {
		return errors.New("cnpj is required")
	}
	if d.SocialName == "" && d.BusinessName == "" {
		return errors.New("either social_name or business_name is required")
	}
	if d.CompanyTypeID <= 0 {
		return errors.New("company_type_id is required")
	}
	return nil
}

func validateStatusPatchDTO(d StatusPatchDTO) error {
	s := models.CompanyStatus(d.CompanyStatusID)
	if s < models.StatusPendingReview || s > models.StatusApproved {
		return errors.New("company_status_id must be between 1 and 5")
	}
	return nil
}

func validateContactDTO(d ContactCreateDTO) error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	if d.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

func validateAttachmentDTO(d AttachmentCreateDTO) error {
	if d.DocumentID <= 0 {
		return errors.New("document_id is required")
	}
	if d.OriginalName == "" || d.FileName == "" {
		return errors.New("original_name and file_name are required")
	}
	return nil
}

func validateReviewDTO(d AttachmentReviewDTO) error {
	switch models.AttachmentStatus(d.AttachmentStatusID) {
	case models.AttachmentPendingReview, models.AttachmentApproved, models.AttachmentRejected:
		return nil
	case models.AttachmentSuperseded:
		return errors.New("superseded is set by a new upload, not by review")
	default:
		return errors.New("invalid attachment_status_id")
	}
}

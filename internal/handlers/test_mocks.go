package handlers

import (
	"context"
	"errors"

	"github.com/weecode/credenciamento-empresa/internal/attachments"
	"github.com/weecode/credenciamento-empresa/internal/models"
	"github.com/weecode/credenciamento-empresa/internal/statusflow"
)

type repoMock struct {
	GetAllFn  func(ctx context.Context, status models.CompanyStatus, limit, skip int64) ([]models.Company, error)
	CreateFn  func(ctx context.Context, c *models.Company) (string, error)
	GetByIDFn func(ctx context.Context, id string) (*models.Company, error)
}

func (m *repoMock) GetAll(ctx context.Context, status models.CompanyStatus, limit, skip int64) ([]models.Company, error) {
	if m.GetAllFn == nil {
		return nil, errors.New("GetAllFn not set")
	}
	return m.GetAllFn(ctx, status, limit, skip)
}
func (m *repoMock) Create(ctx context.Context, c *models.Company) (string, error) {
	if m.CreateFn == nil {
		return "", errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, c)
}
func (m *repoMock) GetByID(ctx context.Context, id string) (*models.Company, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}

type userMock struct {
	CreateFn       func(ctx context.Context, u *models.User) (string, error)
	ListContactsFn func(ctx context.Context, companyID string) ([]models.User, error)
	ListStaffFn    func(ctx context.Context) ([]models.User, error)
}

func (m *userMock) Create(ctx context.Context, u *models.User) (string, error) {
	if m.CreateFn == nil {
		return "", errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, u)
}
func (m *userMock) ListContacts(ctx context.Context, companyID string) ([]models.User, error) {
	if m.ListContactsFn == nil {
		return nil, nil
	}
	return m.ListContactsFn(ctx, companyID)
}
func (m *userMock) ListStaff(ctx context.Context) ([]models.User, error) {
	if m.ListStaffFn == nil {
		return nil, nil
	}
	return m.ListStaffFn(ctx)
}

type flowMock struct {
	TransitionFn func(ctx context.Context, companyID string, target models.CompanyStatus, p statusflow.Payload) (*models.Company, error)
}

func (m *flowMock) Transition(ctx context.Context, companyID string, target models.CompanyStatus, p statusflow.Payload) (*models.Company, error) {
	if m.TransitionFn == nil {
		return nil, errors.New("TransitionFn not set")
	}
	return m.TransitionFn(ctx, companyID, target, p)
}

type attachmentsMock struct {
	UploadFn func(ctx context.Context, companyID string, in attachments.UploadInput) (string, error)
	ReviewFn func(ctx context.Context, attachmentID string, status models.AttachmentStatus, note string) error
	ListFn   func(ctx context.Context, companyID string, documentID int) ([]attachments.View, error)
}

func (m *attachmentsMock) Upload(ctx context.Context, companyID string, in attachments.UploadInput) (string, error) {
	if m.UploadFn == nil {
		return "", errors.New("UploadFn not set")
	}
	return m.UploadFn(ctx, companyID, in)
}
func (m *attachmentsMock) Review(ctx context.Context, attachmentID string, status models.AttachmentStatus, note string) error {
	if m.ReviewFn == nil {
		return errors.New("ReviewFn not set")
	}
	return m.ReviewFn(ctx, attachmentID, status, note)
}
func (m *attachmentsMock) List(ctx context.Context, companyID string, documentID int) ([]attachments.View, error) {
	if m.ListFn == nil {
		return nil, errors.New("ListFn not set")
	}
	return m.ListFn(ctx, companyID, documentID)
}

type notifierMock struct {
	NotifyFn func(ctx context.Context, recipients []models.User, subject, message string)
}

func (m *notifierMock) Notify(ctx context.Context, recipients []models.User, subject, message string) {
	if m.NotifyFn != nil {
		m.NotifyFn(ctx, recipients, subject, message)
	}
}

type mailerMock struct {
	SendFn func(to, subject, htmlBody string) error
}

func (m *mailerMock) Send(to, subject, htmlBody string) error {
	if m.SendFn == nil {
		return nil
	}
	return m.SendFn(to, subject, htmlBody)
}

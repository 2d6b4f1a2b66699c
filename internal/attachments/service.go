// Package attachments controla o ciclo de vida dos anexos: upload com
// substituição da versão anterior, validade calculada pela exigência do
// documento e análise (aprovar/rejeitar) de cada versão.
package attachments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/weecode/credenciamento-empresa/internal/broker"
	"github.com/weecode/credenciamento-empresa/internal/models"
	"github.com/weecode/credenciamento-empresa/internal/repository"
	"github.com/weecode/credenciamento-empresa/internal/statusflow"
)

var ErrRequirementNotFound = errors.New("o documento não está associado ao tipo de empresa")

type CompanyStore interface {
	GetByID(ctx context.Context, id string) (*models.Company, error)
}

type RequirementStore interface {
	Find(ctx context.Context, companyTypeID, documentID int) (*models.DocumentRequirement, error)
}

type Store interface {
	Create(ctx context.Context, a *models.Attachment) (string, error)
	GetByID(ctx context.Context, id string) (*models.Attachment, error)
	ListByCompany(ctx context.Context, companyID string, documentID int, onlyActive bool) ([]models.Attachment, error)
	UpdateReview(ctx context.Context, id string, status models.AttachmentStatus, note string) error
	SupersedeOthers(ctx context.Context, companyID string, documentID int, keepID string) error
}

// Transitioner reabre a análise quando uma empresa aprovada reenvia documento.
type Transitioner interface {
	Transition(ctx context.Context, companyID string, target models.CompanyStatus, p statusflow.Payload) (*models.Company, error)
}

type Service struct {
	Companies    CompanyStore
	Requirements RequirementStore
	Store        Store
	Machine      Transitioner
	Events       statusflow.EventPublisher
	Log          *slog.Logger

	// Now é trocável nos testes; zero usa time.Now.
	Now func() time.Time
}

func NewService(companies CompanyStore, requirements RequirementStore, store Store, machine Transitioner, events statusflow.EventPublisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		Companies:    companies,
		Requirements: requirements,
		Store:        store,
		Machine:      machine,
		Events:       events,
		Log:          log.With("cmp", "attachments"),
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// UploadInput são os metadados do arquivo já armazenado.
type UploadInput struct {
	DocumentID   int
	OriginalName string
	FileName     string
	Mimetype     string
	Size         int64
	Path         string
}

// Upload registra uma nova versão de anexo. Empresa aprovada reenviar
// documento reabre a análise (5→3) antes do registro. A criação precede a
// substituição das versões antigas: sempre existe ao menos um registro não
// substituído para o par (empresa, documento).
func (s *Service) Upload(ctx context.Context, companyID string, in UploadInput) (string, error) {
	company, err := s.Companies.GetByID(ctx, companyID)
	if err != nil {
		return "", err
	}

	req, err := s.Requirements.Find(ctx, company.CompanyTypeID, in.DocumentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRequirementNotFound
		}
		return "", err
	}

	if company.Status == models.StatusApproved {
		company, err = s.Machine.Transition(ctx, companyID, models.StatusUnderAnalysis, statusflow.Payload{})
		if err != nil {
			return "", err
		}
	}

	uploadedAt := s.now()
	attachment := models.Attachment{
		OriginalName:        in.OriginalName,
		FileName:            in.FileName,
		Mimetype:            in.Mimetype,
		Size:                in.Size,
		Path:                in.Path,
		ValidityDate:        req.ValidityDateFrom(uploadedAt),
		Status:              models.AttachmentPendingReview,
		CompanyID:           companyID,
		DocumentID:          in.DocumentID,
		DocumentDescription: req.DocumentDescription,
	}
	id, err := s.Store.Create(ctx, &attachment)
	if err != nil {
		return "", err
	}
	if err := s.Store.SupersedeOthers(ctx, companyID, in.DocumentID, id); err != nil {
		return "", err
	}

	s.publishUploaded(ctx, company, in.DocumentID, id)
	return id, nil
}

// Review grava o resultado da análise de um anexo. Sem efeitos em outras
// entidades: as consequências no nível da empresa são avaliadas quando a
// aprovação (status 5) é pedida ou a mensagem de rejeição é composta.
func (s *Service) Review(ctx context.Context, attachmentID string, status models.AttachmentStatus, note string) error {
	return s.Store.UpdateReview(ctx, attachmentID, status, note)
}

// View é o anexo com o vencimento derivado na leitura.
type View struct {
	models.Attachment
	StatusLabel string `json:"status_label"`
	Expired     bool   `json:"expired"`
}

// List devolve os anexos não substituídos da empresa, com filtro opcional
// por documento.
func (s *Service) List(ctx context.Context, companyID string, documentID int) ([]View, error) {
	list, err := s.Store.ListByCompany(ctx, companyID, documentID, true)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]View, 0, len(list))
	for _, a := range list {
		views = append(views, View{
			Attachment:  a,
			StatusLabel: a.Status.String(),
			Expired:     a.Expired(now),
		})
	}
	return views, nil
}

func (s *Service) publishUploaded(ctx context.Context, company *models.Company, documentID int, attachmentID string) {
	if s.Events == nil {
		return
	}
	err := s.Events.PublishEvent(ctx, broker.Event{
		Action:       broker.ActionAttachmentUploaded,
		CompanyID:    company.ID,
		CNPJ:         company.CNPJ,
		SocialName:   company.SocialName,
		DocumentID:   documentID,
		AttachmentID: attachmentID,
	})
	if err != nil {
		s.Log.Error("attachment_event_publish_failed", "company_id", company.ID, "err", err)
	}
}

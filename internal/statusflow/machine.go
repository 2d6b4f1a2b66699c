// Package statusflow é a máquina de estados do credenciamento: valida a
// legalidade de cada transição, executa os efeitos do status de destino e
// grava o novo status. Os guards falham antes de qualquer mutação.
package statusflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/weecode/credenciamento-empresa/internal/broker"
	"github.com/weecode/credenciamento-empresa/internal/models"
	"github.com/weecode/credenciamento-empresa/internal/notify"
	"github.com/weecode/credenciamento-empresa/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidTransition  = errors.New("o fluxo de status não é válido")
	ErrMissingSector      = errors.New("sector_id obrigatório")
	ErrAttachmentsPending = errors.New("há arquivos aguardando aprovação ou rejeitados")
)

// Pares (atual → destino) permitidos. Qualquer par fora daqui falha com
// ErrInvalidTransition, inclusive repetir o status atual.
var allowed = map[models.CompanyStatus][]models.CompanyStatus{
	models.StatusPendingReview:     {models.StatusDocumentsPending},
	models.StatusDocumentsPending:  {models.StatusUnderAnalysis},
	models.StatusUnderAnalysis:     {models.StatusDocumentsRejected, models.StatusApproved},
	models.StatusDocumentsRejected: {models.StatusUnderAnalysis},
	models.StatusApproved:          {models.StatusUnderAnalysis},
}

func IsStatusFlowValid(current, target models.CompanyStatus) bool {
	for _, t := range allowed[current] {
		if t == target {
			return true
		}
	}
	return false
}

type CompanyStore interface {
	GetByID(ctx context.Context, id string) (*models.Company, error)
	UpdateStatus(ctx context.Context, id string, from, to models.CompanyStatus, sectorID int) error
}

type UserStore interface {
	ListContacts(ctx context.Context, companyID string) ([]models.User, error)
	ListStaff(ctx context.Context) ([]models.User, error)
	Enable(ctx context.Context, id string, passwordHash string) error
}

type AttachmentStore interface {
	ListByCompany(ctx context.Context, companyID string, documentID int, onlyActive bool) ([]models.Attachment, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipients []models.User, subject, message string)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, ev broker.Event) error
}

type Machine struct {
	Companies   CompanyStore
	Users       UserStore
	Attachments AttachmentStore
	Dispatcher  Notifier
	Mailer      notify.Mailer // email direto de credenciais, fora do fluxo de notificação
	Events      EventPublisher
	Log         *slog.Logger
}

func NewMachine(companies CompanyStore, users UserStore, attachments AttachmentStore, dispatcher Notifier, mailer notify.Mailer, events EventPublisher, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		Companies:   companies,
		Users:       users,
		Attachments: attachments,
		Dispatcher:  dispatcher,
		Mailer:      mailer,
		Events:      events,
		Log:         log.With("cmp", "statusflow"),
	}
}

// Payload carrega os campos extras de uma transição.
type Payload struct {
	SectorID int
}

// Transition leva a empresa ao status de destino. Guards retornam antes de
// qualquer mutação; os efeitos do destino rodam antes da gravação; falha de
// notificação nunca desfaz a transição.
func (m *Machine) Transition(ctx context.Context, companyID string, target models.CompanyStatus, p Payload) (*models.Company, error) {
	company, err := m.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !IsStatusFlowValid(company.Status, target) {
		return nil, ErrInvalidTransition
	}

	sectorID := 0
	switch target {
	case models.StatusDocumentsPending:
		if p.SectorID <= 0 {
			return nil, ErrMissingSector
		}
		sectorID = p.SectorID
		if err := m.enableContacts(ctx, company); err != nil {
			return nil, err
		}

	case models.StatusUnderAnalysis:
		staff, err := m.Users.ListStaff(ctx)
		if err != nil {
			return nil, err
		}
		m.Dispatcher.Notify(ctx, staff, "Notificação", SubmittedMessage(company))

	case models.StatusDocumentsRejected:
		attachments, err := m.Attachments.ListByCompany(ctx, company.ID, 0, true)
		if err != nil {
			return nil, err
		}
		contacts, err := m.Users.ListContacts(ctx, company.ID)
		if err != nil {
			return nil, err
		}
		m.Dispatcher.Notify(ctx, contacts, "Notificação", RejectionMessage(attachments))

	case models.StatusApproved:
		attachments, err := m.Attachments.ListByCompany(ctx, company.ID, 0, true)
		if err != nil {
			return nil, err
		}
		for _, a := range attachments {
			if a.Status == models.AttachmentPendingReview || a.Status == models.AttachmentRejected {
				return nil, ErrAttachmentsPending
			}
		}
		contacts, err := m.Users.ListContacts(ctx, company.ID)
		if err != nil {
			return nil, err
		}
		m.Dispatcher.Notify(ctx, contacts, "Notificação", ApprovalMessage())
	}

	if err := m.Companies.UpdateStatus(ctx, company.ID, company.Status, target, sectorID); err != nil {
		return nil, err
	}

	m.publishStatusChanged(ctx, company, target)

	updated := *company
	updated.Status = target
	if sectorID > 0 {
		updated.SectorID = sectorID
	}
	return &updated, nil
}

// enableContacts emite credenciais para cada contato da empresa: gera a
// senha, grava o hash e manda o email com usuário e senha. O email é melhor
// esforço; a gravação não.
func (m *Machine) enableContacts(ctx context.Context, company *models.Company) error {
	contacts, err := m.Users.ListContacts(ctx, company.ID)
	if err != nil {
		return err
	}
	for _, contact := range contacts {
		password := utils.RandomPassword(8)
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := m.Users.Enable(ctx, contact.ID, string(hash)); err != nil {
			return err
		}
		if err := m.Mailer.Send(contact.Email, "Cadastro", CredentialsMessage(contact.Name, contact.Email, password)); err != nil {
			m.Log.Error("credentials_email_failed", "user_id", contact.ID, "err", err)
		}
	}
	return nil
}

func (m *Machine) publishStatusChanged(ctx context.Context, company *models.Company, target models.CompanyStatus) {
	if m.Events == nil {
		return
	}
	err := m.Events.PublishEvent(ctx, broker.Event{
		Action:     broker.ActionStatusChanged,
		CompanyID:  company.ID,
		CNPJ:       company.CNPJ,
		SocialName: company.SocialName,
		FromStatus: int(company.Status),
		ToStatus:   int(target),
	})
	if err != nil {
		m.Log.Error("status_event_publish_failed", "company_id", company.ID, "err", err)
	}
}

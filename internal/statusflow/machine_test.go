package statusflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/weecode/credenciamento-empresa/internal/broker"
	"github.com/weecode/credenciamento-empresa/internal/models"
)

const companyID = "11222333000181"

type companyStoreMock struct {
	GetByIDFn      func(ctx context.Context, id string) (*models.Company, error)
	UpdateStatusFn func(ctx context.Context, id string, from, to models.CompanyStatus, sectorID int) error
}

func (m *companyStoreMock) GetByID(ctx context.Context, id string) (*models.Company, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *companyStoreMock) UpdateStatus(ctx context.Context, id string, from, to models.CompanyStatus, sectorID int) error {
	if m.UpdateStatusFn == nil {
		return nil
	}
	return m.UpdateStatusFn(ctx, id, from, to, sectorID)
}

type userStoreMock struct {
	ListContactsFn func(ctx context.Context, companyID string) ([]models.User, error)
	ListStaffFn    func(ctx context.Context) ([]models.User, error)
	EnableFn       func(ctx context.Context, id string, passwordHash string) error
}

func (m *userStoreMock) ListContacts(ctx context.Context, companyID string) ([]models.User, error) {
	if m.ListContactsFn == nil {
		return nil, nil
	}
	return m.ListContactsFn(ctx, companyID)
}
func (m *userStoreMock) ListStaff(ctx context.Context) ([]models.User, error) {
	if m.ListStaffFn == nil {
		return nil, nil
	}
	return m.ListStaffFn(ctx)
}
func (m *userStoreMock) Enable(ctx context.Context, id string, passwordHash string) error {
	if m.EnableFn == nil {
		return nil
	}
	return m.EnableFn(ctx, id, passwordHash)
}

type attachmentStoreMock struct {
	ListFn func(ctx context.Context, companyID string, documentID int, onlyActive bool) ([]models.Attachment, error)
}

func (m *attachmentStoreMock) ListByCompany(ctx context.Context, companyID string, documentID int, onlyActive bool) ([]models.Attachment, error) {
	if m.ListFn == nil {
		return nil, nil
	}
	return m.ListFn(ctx, companyID, documentID, onlyActive)
}

type notifierSpy struct {
	calls []notifyCall
}

type notifyCall struct {
	recipients []models.User
	subject    string
	message    string
}

func (s *notifierSpy) Notify(_ context.Context, recipients []models.User, subject, message string) {
	s.calls = append(s.calls, notifyCall{recipients: recipients, subject: subject, message: message})
}

type mailerSpy struct {
	sent []string // destinatários
	fail bool
}

func (s *mailerSpy) Send(to, subject, htmlBody string) error {
	s.sent = append(s.sent, to)
	if s.fail {
		return assert.AnError
	}
	return nil
}

type eventsSpy struct {
	events []broker.Event
}

func (s *eventsSpy) PublishEvent(_ context.Context, ev broker.Event) error {
	s.events = append(s.events, ev)
	return nil
}

func newTestMachine(c *companyStoreMock, u *userStoreMock, a *attachmentStoreMock) (*Machine, *notifierSpy, *mailerSpy, *eventsSpy) {
	n := &notifierSpy{}
	m := &mailerSpy{}
	e := &eventsSpy{}
	return NewMachine(c, u, a, n, m, e, nil), n, m, e
}

func companyAt(status models.CompanyStatus) *companyStoreMock {
	return &companyStoreMock{
		GetByIDFn: func(_ context.Context, id string) (*models.Company, error) {
			return &models.Company{
				ID:            id,
				CNPJ:          "11222333000181",
				SocialName:    "ACME S.A.",
				Status:        status,
				CompanyTypeID: 1,
			}, nil
		},
	}
}

func TestTransition_InvalidPairsRejectedWithoutMutation(t *testing.T) {
	all := []models.CompanyStatus{
		models.StatusPendingReview,
		models.StatusDocumentsPending,
		models.StatusUnderAnalysis,
		models.StatusDocumentsRejected,
		models.StatusApproved,
	}
	for _, from := range all {
		for _, to := range all {
			if IsStatusFlowValid(from, to) {
				continue
			}
			cs := companyAt(from)
			updated := false
			cs.UpdateStatusFn = func(_ context.Context, _ string, _, _ models.CompanyStatus, _ int) error {
				updated = true
				return nil
			}
			machine, notifier, _, _ := newTestMachine(cs, &userStoreMock{}, &attachmentStoreMock{})

			_, err := machine.Transition(context.Background(), companyID, to, Payload{SectorID: 7})

			require.ErrorIs(t, err, ErrInvalidTransition, "from=%d to=%d", from, to)
			assert.False(t, updated, "from=%d to=%d: status não pode mudar", from, to)
			assert.Empty(t, notifier.calls, "from=%d to=%d: nada pode ser notificado", from, to)
		}
	}
}

func TestTransition_AllowList(t *testing.T) {
	legal := [][2]models.CompanyStatus{
		{models.StatusPendingReview, models.StatusDocumentsPending},
		{models.StatusDocumentsPending, models.StatusUnderAnalysis},
		{models.StatusUnderAnalysis, models.StatusDocumentsRejected},
		{models.StatusUnderAnalysis, models.StatusApproved},
		{models.StatusDocumentsRejected, models.StatusUnderAnalysis},
		{models.StatusApproved, models.StatusUnderAnalysis},
	}
	for _, pair := range legal {
		assert.True(t, IsStatusFlowValid(pair[0], pair[1]), "%d→%d deveria ser legal", pair[0], pair[1])
	}
	// repetir o status atual não está na lista
	for s := models.StatusPendingReview; s <= models.StatusApproved; s++ {
		assert.False(t, IsStatusFlowValid(s, s))
	}
}

func TestTransition_DocumentsPending_RequiresSector(t *testing.T) {
	cs := companyAt(models.StatusPendingReview)
	enabled := 0
	us := &userStoreMock{
		EnableFn: func(_ context.Context, _, _ string) error {
			enabled++
			return nil
		},
	}
	updated := false
	cs.UpdateStatusFn = func(_ context.Context, _ string, _, _ models.CompanyStatus, _ int) error {
		updated = true
		return nil
	}
	machine, _, _, _ := newTestMachine(cs, us, &attachmentStoreMock{})

	_, err := machine.Transition(context.Background(), companyID, models.StatusDocumentsPending, Payload{})

	require.ErrorIs(t, err, ErrMissingSector)
	assert.False(t, updated)
	assert.Zero(t, enabled, "nenhum contato pode ser habilitado sem setor")
}

func TestTransition_DocumentsPending_EnablesContactsAndAssignsSector(t *testing.T) {
	cs := companyAt(models.StatusPendingReview)
	var gotFrom, gotTo models.CompanyStatus
	gotSector := 0
	cs.UpdateStatusFn = func(_ context.Context, _ string, from, to models.CompanyStatus, sectorID int) error {
		gotFrom, gotTo, gotSector = from, to, sectorID
		return nil
	}

	hashes := map[string]string{}
	us := &userStoreMock{
		ListContactsFn: func(_ context.Context, _ string) ([]models.User, error) {
			return []models.User{
				{ID: "u1", Name: "Maria", Email: "maria@acme.com"},
				{ID: "u2", Name: "João", Email: "joao@acme.com"},
			}, nil
		},
		EnableFn: func(_ context.Context, id, hash string) error {
			hashes[id] = hash
			return nil
		},
	}
	machine, _, mail, events := newTestMachine(cs, us, &attachmentStoreMock{})

	c, err := machine.Transition(context.Background(), companyID, models.StatusDocumentsPending, Payload{SectorID: 7})

	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, gotFrom)
	assert.Equal(t, models.StatusDocumentsPending, gotTo)
	assert.Equal(t, 7, gotSector)
	assert.Equal(t, models.StatusDocumentsPending, c.Status)
	assert.Equal(t, 7, c.SectorID)

	require.Len(t, hashes, 2)
	for id, hash := range hashes {
		// hash bcrypt válido, nunca a senha em claro
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong"))
		assert.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword, "hash inválido para %s", id)
	}
	assert.ElementsMatch(t, []string{"maria@acme.com", "joao@acme.com"}, mail.sent)

	require.Len(t, events.events, 1)
	assert.Equal(t, broker.ActionStatusChanged, events.events[0].Action)
	assert.Equal(t, 1, events.events[0].FromStatus)
	assert.Equal(t, 2, events.events[0].ToStatus)
}

func TestTransition_UnderAnalysis_NotifiesStaff(t *testing.T) {
	cs := companyAt(models.StatusDocumentsPending)
	us := &userStoreMock{
		ListStaffFn: func(_ context.Context) ([]models.User, error) {
			return []models.User{{ID: "s1", Email: "analista@dp.com"}}, nil
		},
	}
	machine, notifier, _, _ := newTestMachine(cs, us, &attachmentStoreMock{})

	_, err := machine.Transition(context.Background(), companyID, models.StatusUnderAnalysis, Payload{})

	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)
	assert.Len(t, notifier.calls[0].recipients, 1)
	assert.Contains(t, notifier.calls[0].message, "encaminhou os documentos para análise")
	assert.Contains(t, notifier.calls[0].message, "11222333000181")
}

func TestTransition_DocumentsRejected_SendsCombinedMessage(t *testing.T) {
	cs := companyAt(models.StatusUnderAnalysis)
	as := &attachmentStoreMock{
		ListFn: func(_ context.Context, _ string, _ int, onlyActive bool) ([]models.Attachment, error) {
			assert.True(t, onlyActive)
			return []models.Attachment{
				{Status: models.AttachmentRejected, DocumentDescription: "Contrato Social", Note: "A"},
				{Status: models.AttachmentRejected, DocumentDescription: "CND", Note: ""},
				{Status: models.AttachmentApproved, DocumentDescription: "FGTS"},
			}, nil
		},
	}
	us := &userStoreMock{
		ListContactsFn: func(_ context.Context, _ string) ([]models.User, error) {
			return []models.User{{ID: "u1", Email: "maria@acme.com"}}, nil
		},
	}
	machine, notifier, _, _ := newTestMachine(cs, us, as)

	_, err := machine.Transition(context.Background(), companyID, models.StatusDocumentsRejected, Payload{})

	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)
	msg := notifier.calls[0].message
	assert.Contains(t, msg, "Contrato Social")
	assert.Contains(t, msg, "<b>Motivo</b>: A")
	assert.Contains(t, msg, "CND")
	assert.Contains(t, msg, "não informado.")
	assert.NotContains(t, msg, "FGTS", "anexo aprovado não entra na mensagem")
}

func TestTransition_Approved_GateBlocksPendingOrRejected(t *testing.T) {
	cases := []struct {
		name   string
		status models.AttachmentStatus
	}{
		{"pending", models.AttachmentPendingReview},
		{"rejected", models.AttachmentRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cs := companyAt(models.StatusUnderAnalysis)
			updated := false
			cs.UpdateStatusFn = func(_ context.Context, _ string, _, _ models.CompanyStatus, _ int) error {
				updated = true
				return nil
			}
			as := &attachmentStoreMock{
				ListFn: func(_ context.Context, _ string, _ int, _ bool) ([]models.Attachment, error) {
					return []models.Attachment{
						{Status: models.AttachmentApproved},
						{Status: tc.status},
					}, nil
				},
			}
			machine, notifier, _, _ := newTestMachine(cs, &userStoreMock{}, as)

			_, err := machine.Transition(context.Background(), companyID, models.StatusApproved, Payload{})

			require.ErrorIs(t, err, ErrAttachmentsPending)
			assert.False(t, updated)
			assert.Empty(t, notifier.calls)
		})
	}
}

func TestTransition_Approved_NotifiesEachContactOnce(t *testing.T) {
	cs := companyAt(models.StatusUnderAnalysis)
	var gotTo models.CompanyStatus
	cs.UpdateStatusFn = func(_ context.Context, _ string, _, to models.CompanyStatus, _ int) error {
		gotTo = to
		return nil
	}
	as := &attachmentStoreMock{
		ListFn: func(_ context.Context, _ string, _ int, _ bool) ([]models.Attachment, error) {
			return []models.Attachment{
				{Status: models.AttachmentApproved},
				{Status: models.AttachmentSuperseded},
			}, nil
		},
	}
	contacts := []models.User{
		{ID: "u1", Email: "maria@acme.com"},
		{ID: "u2", Email: "joao@acme.com"},
	}
	us := &userStoreMock{
		ListContactsFn: func(_ context.Context, _ string) ([]models.User, error) {
			return contacts, nil
		},
	}
	machine, notifier, _, _ := newTestMachine(cs, us, as)

	_, err := machine.Transition(context.Background(), companyID, models.StatusApproved, Payload{})

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, gotTo)
	require.Len(t, notifier.calls, 1, "um único disparo para o lote de contatos")
	assert.Len(t, notifier.calls[0].recipients, 2)
	assert.Contains(t, notifier.calls[0].message, "aprovados")
}

func TestTransition_StorageErrorPropagates(t *testing.T) {
	cs := companyAt(models.StatusDocumentsPending)
	cs.UpdateStatusFn = func(_ context.Context, _ string, _, _ models.CompanyStatus, _ int) error {
		return assert.AnError
	}
	us := &userStoreMock{
		ListStaffFn: func(_ context.Context) ([]models.User, error) { return nil, nil },
	}
	machine, _, _, events := newTestMachine(cs, us, &attachmentStoreMock{})

	_, err := machine.Transition(context.Background(), companyID, models.StatusUnderAnalysis, Payload{})

	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, events.events, "sem evento quando a gravação falha")
}

func TestTransition_CredentialMailFailureDoesNotAbort(t *testing.T) {
	cs := companyAt(models.StatusPendingReview)
	us := &userStoreMock{
		ListContactsFn: func(_ context.Context, _ string) ([]models.User, error) {
			return []models.User{{ID: "u1", Email: "maria@acme.com"}}, nil
		},
	}
	machine, _, mail, _ := newTestMachine(cs, us, &attachmentStoreMock{})
	mail.fail = true

	_, err := machine.Transition(context.Background(), companyID, models.StatusDocumentsPending, Payload{SectorID: 3})

	require.NoError(t, err, "falha de email não pode derrubar a transição")
	assert.Len(t, mail.sent, 1)
}

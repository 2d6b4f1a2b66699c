package attachments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weecode/credenciamento-empresa/internal/models"
	"github.com/weecode/credenciamento-empresa/internal/repository"
	"github.com/weecode/credenciamento-empresa/internal/statusflow"
)

type companyMock struct {
	GetByIDFn func(ctx context.Context, id string) (*models.Company, error)
}

func (m *companyMock) GetByID(ctx context.Context, id string) (*models.Company, error) {
	return m.GetByIDFn(ctx, id)
}

type requirementMock struct {
	FindFn func(ctx context.Context, companyTypeID, documentID int) (*models.DocumentRequirement, error)
}

func (m *requirementMock) Find(ctx context.Context, companyTypeID, documentID int) (*models.DocumentRequirement, error) {
	return m.FindFn(ctx, companyTypeID, documentID)
}

// fakeStore mantém os anexos em memória para observar a ordem
// criar-depois-substituir.
type fakeStore struct {
	attachments map[string]*models.Attachment
	order       []string // sequência de operações
}

func newFakeStore() *fakeStore {
	return &fakeStore{attachments: map[string]*models.Attachment{}}
}

func (s *fakeStore) Create(_ context.Context, a *models.Attachment) (string, error) {
	id := a.FileName
	if id == "" {
		id = "att"
	}
	id = id + "-created"
	cp := *a
	cp.ID = id
	s.attachments[id] = &cp
	s.order = append(s.order, "create:"+id)
	return id, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*models.Attachment, error) {
	a, ok := s.attachments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) ListByCompany(_ context.Context, companyID string, documentID int, onlyActive bool) ([]models.Attachment, error) {
	var out []models.Attachment
	for _, a := range s.attachments {
		if a.CompanyID != companyID {
			continue
		}
		if documentID > 0 && a.DocumentID != documentID {
			continue
		}
		if onlyActive && a.Status == models.AttachmentSuperseded {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (s *fakeStore) UpdateReview(_ context.Context, id string, status models.AttachmentStatus, note string) error {
	a, ok := s.attachments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.Note = note
	return nil
}

func (s *fakeStore) SupersedeOthers(_ context.Context, companyID string, documentID int, keepID string) error {
	s.order = append(s.order, "supersede:"+keepID)
	for id, a := range s.attachments {
		if id == keepID || a.CompanyID != companyID || a.DocumentID != documentID {
			continue
		}
		a.Status = models.AttachmentSuperseded
	}
	return nil
}

type transitionerMock struct {
	TransitionFn func(ctx context.Context, companyID string, target models.CompanyStatus, p statusflow.Payload) (*models.Company, error)
	calls        []models.CompanyStatus
}

func (m *transitionerMock) Transition(ctx context.Context, companyID string, target models.CompanyStatus, p statusflow.Payload) (*models.Company, error) {
	m.calls = append(m.calls, target)
	if m.TransitionFn == nil {
		return &models.Company{ID: companyID, Status: target}, nil
	}
	return m.TransitionFn(ctx, companyID, target, p)
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
}

func newTestService(status models.CompanyStatus, store *fakeStore) (*Service, *transitionerMock) {
	companies := &companyMock{
		GetByIDFn: func(_ context.Context, id string) (*models.Company, error) {
			return &models.Company{ID: id, CNPJ: id, SocialName: "ACME S.A.", Status: status, CompanyTypeID: 1}, nil
		},
	}
	requirements := &requirementMock{
		FindFn: func(_ context.Context, companyTypeID, documentID int) (*models.DocumentRequirement, error) {
			return &models.DocumentRequirement{
				CompanyTypeID:       companyTypeID,
				DocumentID:          documentID,
				DocumentDescription: "Contrato Social",
				ValidityDays:        90,
			}, nil
		},
	}
	machine := &transitionerMock{}
	svc := NewService(companies, requirements, store, machine, nil, nil)
	svc.Now = fixedNow
	return svc, machine
}

func TestUpload_RequirementNotFound(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(models.StatusDocumentsPending, store)
	svc.Requirements = &requirementMock{
		FindFn: func(_ context.Context, _, _ int) (*models.DocumentRequirement, error) {
			return nil, repository.ErrNotFound
		},
	}

	_, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 99})

	require.ErrorIs(t, err, ErrRequirementNotFound)
	assert.Empty(t, store.attachments, "nada pode ser criado sem exigência")
}

func TestUpload_CreatesPendingWithValidity(t *testing.T) {
	store := newFakeStore()
	svc, machine := newTestService(models.StatusDocumentsPending, store)

	id, err := svc.Upload(context.Background(), "11222333000181", UploadInput{
		DocumentID:   3,
		OriginalName: "contrato.pdf",
		FileName:     "a1b2c3.pdf",
		Mimetype:     "application/pdf",
		Size:         2048,
		Path:         "/uploads/a1b2c3.pdf",
	})

	require.NoError(t, err)
	a := store.attachments[id]
	require.NotNil(t, a)
	assert.Equal(t, models.AttachmentPendingReview, a.Status)
	assert.Equal(t, "Contrato Social", a.DocumentDescription)
	assert.Equal(t, fixedNow().AddDate(0, 0, 90), a.ValidityDate)
	assert.Empty(t, machine.calls, "status da empresa não muda fora do fluxo aprovado")
}

func TestUpload_SupersedesPreviousVersions(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(models.StatusDocumentsPending, store)

	first, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 3, FileName: "v1"})
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 3, FileName: "v2"})
	require.NoError(t, err)

	assert.Equal(t, models.AttachmentSuperseded, store.attachments[first].Status)
	assert.Equal(t, models.AttachmentPendingReview, store.attachments[second].Status)

	// a nova versão entra antes das antigas saírem: nunca zero ativos
	assert.Equal(t, []string{
		"create:" + first, "supersede:" + first,
		"create:" + second, "supersede:" + second,
	}, store.order)

	active, err := store.ListByCompany(context.Background(), "11222333000181", 3, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second, active[0].ID)
}

func TestUpload_OtherDocumentUntouched(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(models.StatusDocumentsPending, store)

	other, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 7, FileName: "cnd"})
	require.NoError(t, err)
	_, err = svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 3, FileName: "contrato"})
	require.NoError(t, err)

	assert.Equal(t, models.AttachmentPendingReview, store.attachments[other].Status)
}

func TestUpload_ApprovedCompanyReopensReview(t *testing.T) {
	store := newFakeStore()
	svc, machine := newTestService(models.StatusApproved, store)

	id, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 3, FileName: "novo"})

	require.NoError(t, err)
	assert.Equal(t, []models.CompanyStatus{models.StatusUnderAnalysis}, machine.calls)
	assert.Equal(t, models.AttachmentPendingReview, store.attachments[id].Status)
}

func TestUpload_ReopenFailureAbortsUpload(t *testing.T) {
	store := newFakeStore()
	svc, machine := newTestService(models.StatusApproved, store)
	machine.TransitionFn = func(_ context.Context, _ string, _ models.CompanyStatus, _ statusflow.Payload) (*models.Company, error) {
		return nil, statusflow.ErrInvalidTransition
	}

	_, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 3})

	require.ErrorIs(t, err, statusflow.ErrInvalidTransition)
	assert.Empty(t, store.attachments)
}

func TestReview_UpdatesStatusAndNote(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(models.StatusUnderAnalysis, store)
	id, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 3, FileName: "doc"})
	require.NoError(t, err)

	require.NoError(t, svc.Review(context.Background(), id, models.AttachmentRejected, "ilegível"))

	a := store.attachments[id]
	assert.Equal(t, models.AttachmentRejected, a.Status)
	assert.Equal(t, "ilegível", a.Note)
}

func TestList_HidesSupersededAndDerivesExpiry(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(models.StatusDocumentsPending, store)

	first, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 3, FileName: "v1"})
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), "11222333000181", UploadInput{DocumentID: 3, FileName: "v2"})
	require.NoError(t, err)

	// anexo vencido ontem
	store.attachments[second].ValidityDate = fixedNow().AddDate(0, 0, -1)

	views, err := svc.List(context.Background(), "11222333000181", 3)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, second, views[0].ID)
	assert.True(t, views[0].Expired)
	assert.Equal(t, "Aguardando aprovação", views[0].StatusLabel)

	for _, v := range views {
		assert.NotEqual(t, first, v.ID)
	}
}

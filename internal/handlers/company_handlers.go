package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/weecode/credenciamento-empresa/internal/attachments"
	"github.com/weecode/credenciamento-empresa/internal/models"
	"github.com/weecode/credenciamento-empresa/internal/repository"
	"github.com/weecode/credenciamento-empresa/internal/statusflow"
	"github.com/weecode/credenciamento-empresa/internal/utils"
)

type CompanyStore interface {
	GetAll(ctx context.Context, status models.CompanyStatus, limit, skip int64) ([]models.Company, error)
	Create(ctx context.Context, c *models.Company) (string, error)
	GetByID(ctx context.Context, id string) (*models.Company, error)
}

type ContactStore interface {
	Create(ctx context.Context, u *models.User) (string, error)
	ListContacts(ctx context.Context, companyID string) ([]models.User, error)
	ListStaff(ctx context.Context) ([]models.User, error)
}

type TransitionService interface {
	Transition(ctx context.Context, companyID string, target models.CompanyStatus, p statusflow.Payload) (*models.Company, error)
}

type AttachmentService interface {
	Upload(ctx context.Context, companyID string, in attachments.UploadInput) (string, error)
	Review(ctx context.Context, attachmentID string, status models.AttachmentStatus, note string) error
	List(ctx context.Context, companyID string, documentID int) ([]attachments.View, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipients []models.User, subject, message string)
}

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type CompanyHandler struct {
	Repo        CompanyStore
	Users       ContactStore
	Flow        TransitionService
	Attachments AttachmentService
	Dispatcher  Notifier
	Mailer      Mailer
}

// garantir que a requisição venha no padrão /api/companies/{id}[/subrecurso[/{id2}]]
func parseCompanyPath(path string) (id, sub, subID string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "companies" || parts[2] == "" {
		return "", "", "", false
	}
	id = parts[2]
	if len(parts) >= 4 {
		sub = parts[3]
	}
	if len(parts) >= 5 {
		subID = parts[4]
	}
	return id, sub, subID, len(parts) <= 5
}

func (h *CompanyHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeCoreError mapeia os erros do núcleo para os códigos HTTP do contrato:
// 422 para guard/validação, 400 para estado conflitante, 404 para ausência,
// 409 para corrida de status perdida, 500 opaco para o resto.
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, statusflow.ErrInvalidTransition),
		errors.Is(err, statusflow.ErrMissingSector),
		errors.Is(err, attachments.ErrRequirementNotFound):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"msg": err.Error()})
	case errors.Is(err, statusflow.ErrAttachmentsPending):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{"msg": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, repository.ErrStatusConflict):
		utils.WriteJSON(w, http.StatusConflict, map[string]string{"msg": err.Error()})
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"msg": "Internal Error"})
	}
}

func (h *CompanyHandler) Companies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {

	// listagem com filtro por status e paginação limit/skip
	case http.MethodGet:
		q := r.URL.Query()
		limit := int64(50)
		skip := int64(0)
		if l := q.Get("limit"); l != "" {
			if v, err := strconv.ParseInt(l, 10, 64); err == nil && v > 0 && v <= 200 {
				limit = v
			}
		}
		if s := q.Get("skip"); s != "" {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 0 {
				skip = v
			}
		}
		var status models.CompanyStatus
		if s := q.Get("company_status_id"); s != "" {
			if v, err := strconv.Atoi(s); err == nil {
				status = models.CompanyStatus(v)
			}
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		list, err := h.Repo.GetAll(ctx, status, limit, skip)
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"msg": "Internal Error"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	// cadastro entra no status 1 e avisa os analistas
	case http.MethodPost:
		var dto CompanyCreateDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, utils.FormatUnknownFieldError(err))
			return
		}
		if err := validateCreateDTO(dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}

		c := models.Company{
			CNPJ:            utils.SanitizeCNPJ(dto.CNPJ),
			SocialName:      dto.SocialName,
			BusinessName:    dto.BusinessName,
			Address:         dto.Address,
			Number:          dto.Number,
			Complement:      dto.Complement,
			District:        dto.District,
			City:            dto.City,
			State:           dto.State,
			Country:         dto.Country,
			CEP:             dto.CEP,
			Status:          models.StatusPendingReview,
			CompanyTypeID:   dto.CompanyTypeID,
			ParentCompanyID: dto.ParentCompanyID,
		}
		if !utils.ValidateCNPJ(c.CNPJ) {
			utils.BadRequest(w, "invalid cnpj")
			return
		}
		c.ID = c.CNPJ

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if _, err := h.Repo.Create(ctx, &c); err != nil {
			if errors.Is(err, repository.ErrDuplicateCNPJ) {
				utils.WriteJSON(w, http.StatusConflict, map[string]string{"error": "cnpj already exists"})
				return
			}
			utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"msg": "Internal Error"})
			return
		}

		if staff, err := h.Users.ListStaff(ctx); err == nil {
			h.Dispatcher.Notify(ctx, staff, "Notificação", statusflow.NewRequestMessage(&c))
		}
		utils.WriteJSON(w, http.StatusCreated, c)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CompanyRoutes despacha /api/companies/{id} e seus subrecursos
// (status, contacts, attachments).
func (h *CompanyHandler) CompanyRoutes(w http.ResponseWriter, r *http.Request) {
	id, sub, subID, ok := parseCompanyPath(r.URL.Path)
	if !ok {
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	switch sub {
	case "":
		h.companyByID(w, r, id)
	case "status":
		h.companyStatus(w, r, id)
	case "contacts":
		h.companyContacts(w, r, id)
	case "attachments":
		h.companyAttachments(w, r, id, subID)
	default:
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (h *CompanyHandler) companyByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) companyStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var dto StatusPatchDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatUnknownFieldError(err))
		return
	}
	if err := validateStatusPatchDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	c, err := h.Flow.Transition(ctx, id, models.CompanyStatus(dto.CompanyStatusID), statusflow.Payload{SectorID: dto.SectorID})
	if err != nil {
		writeCoreError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"updated": 1,
		"msg":     "Atualizado com sucesso.",
		"company": c,
	})
}

func (h *CompanyHandler) companyContacts(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		list, err := h.Users.ListContacts(ctx, id)
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"msg": "Internal Error"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var dto ContactCreateDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, utils.FormatUnknownFieldError(err))
			return
		}
		if err := validateContactDTO(dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		if _, err := h.Repo.GetByID(ctx, id); err != nil {
			utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}

		u := models.User{
			Name:      dto.Name,
			Email:     dto.Email,
			Phone:     dto.Phone,
			Phone2:    dto.Phone2,
			Type:      models.UserTypeContact,
			Status:    models.UserDisabled,
			CompanyID: id,
		}
		uid, err := h.Users.Create(ctx, &u)
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"msg": "Internal Error"})
			return
		}
		// confirmação de recebimento; melhor esforço
		_ = h.Mailer.Send(u.Email, "Cadastro", statusflow.RegistrationRequestMessage(u.Name))

		utils.WriteJSON(w, http.StatusCreated, map[string]string{
			"id":  uid,
			"msg": "Cadastrado com sucesso.",
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *CompanyHandler) companyAttachments(w http.ResponseWriter, r *http.Request, id, attachmentID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// análise de um anexo específico
	if attachmentID != "" {
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var dto AttachmentReviewDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, utils.FormatUnknownFieldError(err))
			return
		}
		if err := validateReviewDTO(dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		if err := h.Attachments.Review(ctx, attachmentID, models.AttachmentStatus(dto.AttachmentStatusID), dto.Note); err != nil {
			writeCoreError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"updated": 1,
			"msg":     "Atualizado com sucesso.",
		})
		return
	}

	switch r.Method {
	case http.MethodGet:
		documentID := 0
		if s := r.URL.Query().Get("document_id"); s != "" {
			if v, err := strconv.Atoi(s); err == nil {
				documentID = v
			}
		}
		list, err := h.Attachments.List(ctx, id, documentID)
		if err != nil {
			writeCoreError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{"rows": list})

	case http.MethodPost:
		var dto AttachmentCreateDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, utils.FormatUnknownFieldError(err))
			return
		}
		if err := validateAttachmentDTO(dto); err != nil {
			utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"msg": err.Error()})
			return
		}
		attID, err := h.Attachments.Upload(ctx, id, attachments.UploadInput{
			DocumentID:   dto.DocumentID,
			OriginalName: dto.OriginalName,
			FileName:     dto.FileName,
			Mimetype:     dto.Mimetype,
			Size:         dto.Size,
			Path:         dto.Path,
		})
		if err != nil {
			writeCoreError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, map[string]string{
			"id":  attID,
			"msg": "Anexado com sucesso",
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

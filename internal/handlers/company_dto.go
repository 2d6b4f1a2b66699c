package handlers

// somente os campos do contrato; status inicial é definido no servidor
type CompanyCreateDTO struct {
	CNPJ            string `json:"cnpj"`
	SocialName      string `json:"social_name"`
	BusinessName    string `json:"business_name"`
	Address         string `json:"address"`
	Number          string `json:"number"`
	Complement      string `json:"complement,omitempty"`
	District        string `json:"district"`
	City            string `json:"city"`
	State           string `json:"state"`
	Country         string `json:"country"`
	CEP             string `json:"cep"`
	CompanyTypeID   int    `json:"company_type_id"`
	ParentCompanyID string `json:"parent_company_id,omitempty"`
}

// StatusPatchDTO é o corpo do PATCH de transição de status.
type StatusPatchDTO struct {
	CompanyStatusID int `json:"company_status_id"`
	SectorID        int `json:"sector_id,omitempty"`
}

type ContactCreateDTO struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Phone2 string `json:"phone2,omitempty"`
}

// AttachmentCreateDTO carrega os metadados do arquivo armazenado; o
// transporte do upload em si fica fora desta API.
type AttachmentCreateDTO struct {
	DocumentID   int    `json:"document_id"`
	OriginalName string `json:"original_name"`
	FileName     string `json:"file_name"`
	Mimetype     string `json:"mimetype,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Path         string `json:"path,omitempty"`
}

type AttachmentReviewDTO struct {
	AttachmentStatusID int    `json:"attachment_status_id"`
	Note               string `json:"note,omitempty"`
}

package models

import "time"

// CompanyStatus é o código numérico do fluxo de credenciamento.
type CompanyStatus int

const (
	StatusPendingReview     CompanyStatus = 1 // aguardando análise do cadastro
	StatusDocumentsPending  CompanyStatus = 2 // aguardando envio de documentos
	StatusUnderAnalysis     CompanyStatus = 3 // documentos em análise
	StatusDocumentsRejected CompanyStatus = 4
	StatusApproved          CompanyStatus = 5
)

// Rótulos exibidos; a lógica usa só os códigos.
var CompanyStatusLabels = map[CompanyStatus]string{
	StatusPendingReview:     "Aguardando análise",
	StatusDocumentsPending:  "Aguardando documentos",
	StatusUnderAnalysis:     "Documentos em análise",
	StatusDocumentsRejected: "Documentos rejeitados",
	StatusApproved:          "Aprovada",
}

func (s CompanyStatus) String() string {
	if l, ok := CompanyStatusLabels[s]; ok {
		return l
	}
	return "desconhecido"
}

type Company struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	CNPJ            string        `bson:"cnpj" json:"cnpj"` // armazenado normalizado (apenas dígitos)
	SocialName      string        `bson:"social_name" json:"social_name"`
	BusinessName    string        `bson:"business_name" json:"business_name"`
	Address         string        `bson:"address" json:"address"`
	Number          string        `bson:"number" json:"number"`
	Complement      string        `bson:"complement,omitempty" json:"complement,omitempty"`
	District        string        `bson:"district" json:"district"`
	City            string        `bson:"city" json:"city"`
	State           string        `bson:"state" json:"state"`
	Country         string        `bson:"country" json:"country"`
	CEP             string        `bson:"cep" json:"cep"`
	Status          CompanyStatus `bson:"company_status_id" json:"company_status_id"`
	CompanyTypeID   int           `bson:"company_type_id" json:"company_type_id"`
	SectorID        int           `bson:"sector_id,omitempty" json:"sector_id,omitempty"`
	ParentCompanyID string        `bson:"parent_company_id,omitempty" json:"parent_company_id,omitempty"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

package models

import "time"

// AttachmentStatus segue os códigos herdados da base legada.
type AttachmentStatus int

const (
	AttachmentPendingReview AttachmentStatus = 1
	AttachmentApproved      AttachmentStatus = 2
	AttachmentSuperseded    AttachmentStatus = 3 // versão substituída por novo envio
	AttachmentRejected      AttachmentStatus = 4
)

var AttachmentStatusLabels = map[AttachmentStatus]string{
	AttachmentPendingReview: "Aguardando aprovação",
	AttachmentApproved:      "Aprovado",
	AttachmentSuperseded:    "Substituído",
	AttachmentRejected:      "Rejeitado",
}

func (s AttachmentStatus) String() string {
	if l, ok := AttachmentStatusLabels[s]; ok {
		return l
	}
	return "desconhecido"
}

// Attachment é uma versão de arquivo enviada para um documento exigido.
type Attachment struct {
	ID           string           `bson:"_id,omitempty" json:"id"`
	OriginalName string           `bson:"original_name" json:"original_name"`
	FileName     string           `bson:"file_name" json:"file_name"`
	Mimetype     string           `bson:"mimetype" json:"mimetype"`
	Size         int64            `bson:"size" json:"size"`
	Path         string           `bson:"path" json:"path"`
	ValidityDate time.Time        `bson:"validity_date" json:"validity_date"`
	Status       AttachmentStatus `bson:"attachment_status_id" json:"attachment_status_id"`
	Note         string           `bson:"note,omitempty" json:"note,omitempty"`
	CompanyID    string           `bson:"company_id" json:"company_id"`
	DocumentID   int              `bson:"document_id" json:"document_id"`
	// descrição do documento desnormalizada no upload (Mongo não faz join)
	DocumentDescription string    `bson:"document_description" json:"document_description"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// Expired informa se a validade venceu antes do início do dia atual.
// Calculado na leitura, nunca gravado.
func (a Attachment) Expired(now time.Time) bool {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return a.ValidityDate.Before(startOfDay)
}

// DocumentRequirement associa um documento exigido a um tipo de empresa e
// define a validade padrão dos anexos que o atendem.
type DocumentRequirement struct {
	ID                  string `bson:"_id,omitempty" json:"id"`
	CompanyTypeID       int    `bson:"company_type_id" json:"company_type_id"`
	DocumentID          int    `bson:"document_id" json:"document_id"`
	DocumentDescription string `bson:"document_description" json:"document_description"`
	ValidityDays        int    `bson:"validity_days" json:"validity_days"`
}

// ValidityDateFrom calcula a data de validade de um anexo enviado em "from".
func (r DocumentRequirement) ValidityDateFrom(from time.Time) time.Time {
	return from.AddDate(0, 0, r.ValidityDays)
}

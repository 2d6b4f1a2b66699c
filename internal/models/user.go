package models

import "time"

type UserType int

const (
	UserTypeStaff   UserType = 1 // analista interno
	UserTypeContact UserType = 2 // contato da empresa
)

type UserStatus int

const (
	UserDisabled UserStatus = 1 // criado junto com o cadastro, sem credenciais
	UserEnabled  UserStatus = 2
)

type User struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Email        string     `bson:"email" json:"email"`
	Phone        string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Phone2       string     `bson:"phone2,omitempty" json:"phone2,omitempty"`
	PasswordHash string     `bson:"password_hash,omitempty" json:"-"`
	Type         UserType   `bson:"user_type_id" json:"user_type_id"`
	Status       UserStatus `bson:"user_status_id" json:"user_status_id"`
	CompanyID    string     `bson:"company_id,omitempty" json:"company_id,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// Notification é a mensagem persistida para cada destinatário; gravada
// mesmo quando o envio de email falha.
type Notification struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Message   string    `bson:"message" json:"message"`
	EmailSent bool      `bson:"email_sent" json:"email_sent"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

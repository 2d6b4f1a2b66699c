package statusflow

import (
	"fmt"
	"strings"

	"github.com/weecode/credenciamento-empresa/internal/models"
)

// Composição das mensagens de cada transição, separada dos efeitos para
// testar sem I/O.

func NewRequestMessage(c *models.Company) string {
	return fmt.Sprintf("Existe uma nova solicitação de credenciamento para análise. %s – %s.", c.CNPJ, c.SocialName)
}

func SubmittedMessage(c *models.Company) string {
	return fmt.Sprintf("O cadastro %s – %s encaminhou os documentos para análise.", c.CNPJ, c.SocialName)
}

// RejectionMessage monta a mensagem única com todos os anexos rejeitados e
// seus motivos; motivo vazio vira "não informado.".
func RejectionMessage(attachments []models.Attachment) string {
	lines := make([]string, 0, len(attachments))
	for _, a := range attachments {
		if a.Status != models.AttachmentRejected {
			continue
		}
		note := a.Note
		if note == "" {
			note = "não informado."
		}
		lines = append(lines, fmt.Sprintf("<b>Documento</b>: %s. <b>Motivo</b>: %s", a.DocumentDescription, note))
	}
	return "Olá,<br>Você teve documento(s) da empresa rejeitado(s). Acesse o sistema e faça o envio novamente.<br><br> " +
		strings.Join(lines, "<br>")
}

func ApprovalMessage() string {
	return "Olá,<br>Documentos da empresa aprovados. Credencie os colaboradores."
}

// CredentialsMessage é o corpo do email de habilitação do contato, com as
// credenciais emitidas.
func CredentialsMessage(name, email, password string) string {
	return fmt.Sprintf(` <p><b>Cadastro na dp-world</b></p>
              <p>%s, seu cadastro foi aprovado e você pode realizar login com os dados abaixo.</p>
              <br><p>Usuário: %s</p>
              <p>Senha: %s</p>`, name, email, password)
}

// RegistrationRequestMessage avisa o contato recém-cadastrado que os dados
// estão em avaliação.
func RegistrationRequestMessage(name string) string {
	return fmt.Sprintf(` <p><b>Cadastro na dp-world</b></p>
              <p>%s, seus dados foram enviados para a avaliação de cadastro. Após confirmados, você receberá um email para realizar o envio dos documentos.</p>`, name)
}

// Package notify entrega notificações para usuários: tenta o email e grava o
// registro da notificação independentemente do resultado do envio. Falha de
// email nunca sobe para o chamador; a mudança de estado dona da notificação
// não pode ser bloqueada nem desfeita por ela.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weecode/credenciamento-empresa/internal/models"
)

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) (string, error)
}

type Dispatcher struct {
	Mailer Mailer
	Store  NotificationStore
	Log    *slog.Logger
}

func NewDispatcher(m Mailer, s NotificationStore, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{Mailer: m, Store: s, Log: log.With("cmp", "notify")}
}

// Notify envia a mensagem para cada destinatário. Para cada um: tenta o
// email, depois grava a notificação com o resultado do envio.
func (d *Dispatcher) Notify(ctx context.Context, recipients []models.User, subject, message string) {
	for _, u := range recipients {
		sent := true
		if err := d.Mailer.Send(u.Email, subject, WrapHTML(message)); err != nil {
			sent = false
			d.Log.Error("email_send_failed", "user_id", u.ID, "email", u.Email, "err", err)
		}
		n := models.Notification{
			UserID:    u.ID,
			Message:   message,
			EmailSent: sent,
		}
		if _, err := d.Store.Create(ctx, &n); err != nil {
			d.Log.Error("notification_save_failed", "user_id", u.ID, "err", err)
		}
	}
}

// WrapHTML aplica a moldura padrão dos emails de notificação.
func WrapHTML(msg string) string {
	return fmt.Sprintf(`
      <table style="border:1px solid #cccccc; width: 500px; text-align:center">
        <tr>
            <td style="padding:10px">
                <img style="width: 300px" src="http://demo.weecode.com.br/cdi/images/logo.png" />
            </td>
        </tr>
        <tr>
            <td style="font-size: 20px; font-family: Arial, Helvetica, sans-serif; border-top:1px solid #eeeeee; padding-top:20px; padding-bottom:20px">
                %s
            </td>
        </tr>
      </table>`, msg)
}

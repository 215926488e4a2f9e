// internal/adapters/in/http/admin/handler/mail_handler.go
package adminHandler

import (
	"context"
	"log"
	"net/http"

	common "github.com/tisoftshake/softshake/internal/adapters/in/http/handlers/common"
)

// MailTester sends a fixed test message to the shop admin.
type MailTester interface {
	SendTest(ctx context.Context) error
}

// NewMailTestHandler serves POST /admin/mail/test to check the SendGrid settings.
func NewMailTestHandler(m MailTester) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			common.MethodNotAllowed(w)
			return
		}
		if err := m.SendTest(r.Context()); err != nil {
			log.Printf("[admin.mail] WARN: test mail failed: %v", err)
			common.WriteJSON(w, http.StatusBadGateway, common.ErrorBody{Error: "mail_send_failed"})
			return
		}
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
	})
}

package server

import (
	"net/http"

	"github.com/kirankm/resume-ranker/internal/notify"
	"github.com/kirankm/resume-ranker/internal/types"
	"go.uber.org/zap"
)

// handleSendEmail sends a processing update to a candidate. Delivery is
// synchronous; failures are reported with the underlying error.
func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req types.SendEmailRequest
	if err := decodeJSON(r, &req, s.maxJSONBytes); err != nil {
		if bodyTooLarge(err) {
			writeTooLarge(w, s.logger, s.maxJSONBytes)
			return
		}
		writeError(w, s.logger, http.StatusBadRequest, "Missing email or message")
		return
	}
	if req.Validate() != nil {
		writeError(w, s.logger, http.StatusBadRequest, "Missing email or message")
		return
	}

	if err := s.mailer.Send(r.Context(), req.Email, notify.DefaultSubject, req.Message); err != nil {
		s.logger.Warn("email delivery failed", zap.String("recipient", req.Email), zap.Error(err))
		writeError(w, s.logger, HTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, s.logger, http.StatusOK, types.MessageResponse{Message: "Email sent successfully!"})
}

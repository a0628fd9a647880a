package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumenstudio/api/internal/service"
)

type contactRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company"`
	Service string  `json:"service"`
	Message string  `json:"message"`
	Consent bool    `json:"consent"`
}

func (h HandlerSet) SubmitContact(c *gin.Context) {
	var req contactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	submission, err := h.contact.Submit(c.Request.Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Service: req.Service,
		Message: req.Message,
		Consent: req.Consent,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"id":      submission.ID,
		"message": "Thank you for reaching out. We will get back to you shortly.",
	})
}

func (h HandlerSet) ListContacts(c *gin.Context) {
	submissions, err := h.contact.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]contactResponse, 0, len(submissions))
	for _, s := range submissions {
		out = append(out, toContactResponse(s))
	}
	respond(c, http.StatusOK, out)
}

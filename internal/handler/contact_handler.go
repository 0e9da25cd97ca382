package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/hyperflash/contact-api/internal/model"
	"github.com/hyperflash/contact-api/internal/sanitize"
	"github.com/hyperflash/contact-api/internal/service"
)

const (
	maxBodyBytes     = 64 << 10
	minKeyLength     = 16
	defaultListLimit = 50
	maxListLimit     = 100
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// ContactHandler handles contact form submission and the submission listing.
type ContactHandler struct {
	contactService service.ContactService
	submissionsKey string
	logger         *slog.Logger
}

// NewContactHandler creates a ContactHandler. submissionsKey, when non-empty,
// is the exact key GET /submissions must present.
func NewContactHandler(contactService service.ContactService, submissionsKey string, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		submissionsKey: submissionsKey,
		logger:         logger,
	}
}

// submitRequest is the expected JSON body for POST /contact.
type submitRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contactemail"`
	Message string `json:"message" validate:"required"`
}

type submitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ID        string `json:"id"`
	EmailSent bool   `json:"emailSent"`
}

// Submit handles POST /contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if msg := validationMessage(validate.Struct(req)); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sub := &model.Submission{
		Name:      sanitize.Truncate(sanitize.Sanitize(req.Name), model.MaxNameLength),
		Email:     sanitize.Truncate(sanitize.Sanitize(req.Email), model.MaxEmailLength),
		Message:   sanitize.Truncate(sanitize.Sanitize(req.Message), model.MaxMessageLength),
		IP:        clientIP(r),
		Country:   headerOrUnknown(r, "CF-IPCountry"),
		UserAgent: sanitize.Truncate(headerOrUnknown(r, "User-Agent"), model.MaxUserAgentLength),
	}

	res, err := h.contactService.Submit(r.Context(), sub)
	if err != nil {
		h.logger.Error("contact submission failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:   true,
		Message:   "Contact form submitted successfully",
		ID:        res.ID,
		EmailSent: res.EmailSent,
	})
}

// validationMessage maps validator errors to the client message. A missing
// field wins over a malformed email.
func validationMessage(err error) string {
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Missing required fields: name, email, message"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "Missing required fields: name, email, message"
		}
	}
	return "Invalid email format"
}

func headerOrUnknown(r *http.Request, name string) string {
	if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
		return v
	}
	return model.Unknown
}

// clientIP prefers the edge-provided CF-Connecting-IP, then the leftmost
// X-Forwarded-For hop.
func clientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return model.Unknown
}

type listResponse struct {
	Count       int                 `json:"count"`
	Total       int                 `json:"total"`
	Submissions []*model.Submission `json:"submissions"`
}

// ListSubmissions handles GET /submissions?key=&limit=.
func (h *ContactHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !h.authorized(q.Get("key")) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := defaultListLimit
	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			limit = min(n, maxListLimit)
		}
	}
	if limit < 0 {
		limit = 0
	}

	page, err := h.contactService.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list submissions failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	items := page.Items
	// Return [] not null for empty lists
	if items == nil {
		items = []*model.Submission{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Count:       len(items),
		Total:       page.Total,
		Submissions: items,
	})
}

func (h *ContactHandler) authorized(key string) bool {
	if utf8.RuneCountInString(key) < minKeyLength {
		return false
	}
	if h.submissionsKey == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(h.submissionsKey)) == 1
}

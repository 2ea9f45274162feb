package validator

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
)

// Validator checks requests at the API boundary
type Validator struct {
	cfg config.ValidationConfig
}

func NewValidator(cfg config.ValidationConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateGenerateProposal validates GenerateProposalRequest
func (v *Validator) ValidateGenerateProposal(req *entity.GenerateProposalRequest) error {
	if err := v.ValidateAPIKey(req.APIKey); err != nil {
		return err
	}

	input := strings.TrimSpace(req.UserInput)
	if input == "" {
		return fmt.Errorf("%w: user_input", entity.ErrMissingField)
	}
	if n := utf8.RuneCountInString(input); n < v.cfg.UserInputMinLength {
		return fmt.Errorf("%w: user_input must be at least %d characters, got %d", entity.ErrInvalidParameter, v.cfg.UserInputMinLength, n)
	}
	if n := utf8.RuneCountInString(input); v.cfg.UserInputMaxLength > 0 && n > v.cfg.UserInputMaxLength {
		return fmt.Errorf("%w: user_input must be at most %d characters, got %d", entity.ErrInvalidParameter, v.cfg.UserInputMaxLength, n)
	}

	if req.CallbackURL != "" {
		return validateCallbackURL(req.CallbackURL)
	}

	return nil
}

// ValidateAPIKey checks the shape of a text generation API key
func (v *Validator) ValidateAPIKey(key entity.Credential) error {
	if key.IsEmpty() {
		return fmt.Errorf("%w: api_key is required", entity.ErrCredential)
	}

	s := strings.TrimSpace(string(key))
	if !strings.HasPrefix(s, v.cfg.APIKeyPrefix) {
		return fmt.Errorf("%w: api_key must start with %q", entity.ErrCredential, v.cfg.APIKeyPrefix)
	}
	if len(s) < v.cfg.APIKeyMinLength {
		return fmt.Errorf("%w: api_key is too short", entity.ErrCredential)
	}

	return nil
}

// ValidateRenderDocument validates RenderDocumentRequest
func (v *Validator) ValidateRenderDocument(req *entity.RenderDocumentRequest) error {
	if strings.TrimSpace(req.FullProposal) == "" {
		return fmt.Errorf("%w: full_proposal", entity.ErrMissingField)
	}
	return nil
}

func validateCallbackURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: callback_url: %w", entity.ErrInvalidParameter, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: callback_url must use http or https", entity.ErrInvalidParameter)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: callback_url must include a host", entity.ErrInvalidParameter)
	}
	return nil
}

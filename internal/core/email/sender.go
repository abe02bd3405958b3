package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"recetario-pae/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

const sendPath = "/api/v1.0/email/send"

var (
	ErrEmailDisabled    = errors.New("email delivery is not configured")
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrSendFailed       = errors.New("email provider rejected the message")
)

var recipientPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateRecipient 檢查收件地址的基本格式
func ValidateRecipient(addr string) error {
	if !recipientPattern.MatchString(addr) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, addr)
	}
	return nil
}

// Message 一封 HTML 郵件，Kind 與 RequestID 僅用於日誌
type Message struct {
	To        string
	HTML      string
	Kind      string
	RequestID string
}

// Deliverer 發送單封郵件
type Deliverer interface {
	Send(ctx context.Context, msg Message) error
}

// Sender 透過 EmailJS REST API 發送郵件
type Sender struct {
	config config.EmailConfig
	client *resty.Client
}

type templateParams struct {
	ToEmail     string `json:"to_email"`
	FromName    string `json:"from_name"`
	Subject     string `json:"subject"`
	MessageHTML string `json:"message_html"`
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams templateParams `json:"template_params"`
}

// NewSender 創建 EmailJS 客戶端
func NewSender(cfg config.EmailConfig) *Sender {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Sender{config: cfg, client: client}
}

// Enabled 是否已設定憑證
func (s *Sender) Enabled() bool {
	return s != nil && s.config.Enabled
}

// Send 透過 EmailJS 發送 msg
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	if err := ValidateRecipient(msg.To); err != nil {
		return err
	}

	req := sendRequest{
		ServiceID:   s.config.ServiceID,
		TemplateID:  s.config.TemplateID,
		UserID:      s.config.PublicKey,
		AccessToken: s.config.PrivateKey,
		TemplateParams: templateParams{
			ToEmail:     msg.To,
			FromName:    s.config.FromName,
			Subject:     s.config.Subject,
			MessageHTML: strings.TrimSpace(msg.HTML),
		},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(sendPath)
	if err != nil {
		return fmt.Errorf("failed to send request to EmailJS: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode(), resp.String())
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"siapkit/internal/modules/planner/domain"
)

type Credentials struct {
	Login    string
	Password string
}

// OpenPortal loads the login page and resets lookups to its top document.
func (s *Session) OpenPortal(ctx context.Context, portalURL string) error {
	if err := s.browser.Navigate(ctx, portalURL); err != nil {
		return fmt.Errorf("open portal: %w", err)
	}
	s.SwitchToTop()
	return nil
}

// Authenticate fills the login form of the open portal, copies the plaintext
// CAPTCHA into its input and submits. It returns the CAPTCHA it typed.
func (s *Session) Authenticate(ctx context.Context, creds Credentials, beforeSubmit time.Duration) (string, error) {
	s.SwitchToTop()
	if err := s.fill(ctx, domain.LoginField, creds.Login); err != nil {
		return "", err
	}
	if err := s.fill(ctx, domain.PasswordField, creds.Password); err != nil {
		return "", err
	}
	label, err := s.WaitFor(ctx, domain.CaptchaLabel, s.wait, false)
	if err != nil {
		return "", err
	}
	captcha, err := label.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("read captcha: %w", err)
	}
	captcha = strings.TrimSpace(captcha)
	s.logger.Info("captcha read", zap.String("captcha", captcha))
	if err := s.fill(ctx, domain.CaptchaField, captcha); err != nil {
		return "", err
	}
	if err := s.Pause(ctx, beforeSubmit); err != nil {
		return "", err
	}
	logon, err := s.WaitFor(ctx, domain.LogonButton, s.wait, true)
	if err != nil {
		return "", err
	}
	if err := logon.PointerClick(ctx); err != nil {
		return "", fmt.Errorf("submit login: %w", err)
	}
	return captcha, nil
}

func (s *Session) fill(ctx context.Context, sel domain.Selector, value string) error {
	field, err := s.WaitFor(ctx, sel, s.wait, false)
	if err != nil {
		return err
	}
	if err := field.Fill(ctx, value); err != nil {
		return fmt.Errorf("fill %s: %w", sel, err)
	}
	return nil
}

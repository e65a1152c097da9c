// AngelaMos | 2026
// forms.go

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

type Credentials struct {
	Email    string
	Username string
	Password string
}

// PromptLogin collects credentials interactively when they are not
// passed as flags.
func PromptLogin() (Credentials, error) {
	var creds Credentials

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Validate(validateEmail).
				Value(&creds.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validatePassword).
				Value(&creds.Password),
		),
	)

	if err := form.Run(); err != nil {
		return Credentials{}, fmt.Errorf("login prompt: %w", err)
	}

	return creds, nil
}

func PromptRegister() (Credentials, error) {
	var creds Credentials

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Validate(validateEmail).
				Value(&creds.Email),
			huh.NewInput().
				Title("Username").
				Validate(func(s string) error {
					if len(strings.TrimSpace(s)) < 3 {
						return fmt.Errorf("username must be at least 3 characters")
					}
					return nil
				}).
				Value(&creds.Username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validatePassword).
				Value(&creds.Password),
		),
	)

	if err := form.Run(); err != nil {
		return Credentials{}, fmt.Errorf("register prompt: %w", err)
	}

	return creds, nil
}

func validateEmail(s string) error {
	if !strings.Contains(s, "@") || strings.TrimSpace(s) == "" {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

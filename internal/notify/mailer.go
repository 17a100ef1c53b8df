// Package notify delivers user-facing notifications through an external mail
// relay. Delivery is best effort; callers dispatch through the job queue and
// never wait on the result.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/taskhub-dev/taskhub/internal/models"
)

type WelcomeEmailRequest struct {
	To      string `json:"to"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendWelcomeEmail posts the one-time welcome message for a freshly created
// user to the configured relay. With no relay configured it is a no-op, the
// same skip-when-unset contract the rest of the collaborators follow.
func SendWelcomeEmail(ctx context.Context, user models.User) error {
	relayURL := os.Getenv("MAILER_WEBHOOK_URL")

	if relayURL == "" {
		return nil
	}

	payload := WelcomeEmailRequest{
		To:      user.Email,
		Name:    user.Name(),
		Subject: "Welcome to TaskHub",
		Body:    fmt.Sprintf("Hi %s, your TaskHub account is ready.", user.FirstName),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal welcome email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, relayURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}

	return nil
}

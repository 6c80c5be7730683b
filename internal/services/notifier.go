package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// NotifierService pushes high-match alerts to a Discord webhook.
// Notification failures never fail the pipeline; duplicate alerts on
// reprocessing are accepted (the queue is at-least-once).
type NotifierService interface {
	SendAlert(candidateName, email string, score float64, reason string) error
}

type discordNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordNotifier(webhookURL string) NotifierService {
	return &discordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields"`
	Footer      map[string]string   `json:"footer"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordPayload struct {
	Username string         `json:"username"`
	Embeds   []discordEmbed `json:"embeds"`
}

// SendAlert implements NotifierService.
func (n *discordNotifier) SendAlert(candidateName, email string, score float64, reason string) error {
	if n.webhookURL == "" {
		log.Println("⚠️  DISCORD_WEBHOOK_URL missing, skipping alert.")
		return nil
	}

	log.Printf("📨 Sending alert for %s...\n", candidateName)

	color := 0xffff00
	if score >= 80 {
		color = 0x00ff00
	}

	payload := discordPayload{
		Username: "AI Recruiter 🤖",
		Embeds: []discordEmbed{{
			Title:       fmt.Sprintf("🚀 Top Candidate: %s", candidateName),
			Description: fmt.Sprintf("**Match Score:** %.1f%%\n\n_%s_", score, reason),
			Color:       color,
			Fields: []discordEmbedField{
				{Name: "📧 Email", Value: email, Inline: true},
				{Name: "⚡ Status", Value: "Recommended for Interview", Inline: true},
			},
			Footer: map[string]string{
				"text": fmt.Sprintf("Processed at %s", time.Now().Format("15:04")),
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert rejected with status %d", resp.StatusCode)
	}

	return nil
}

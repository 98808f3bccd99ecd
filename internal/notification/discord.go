package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bhlabz/wheat-growth-maps/internal/properties"
)

type DiscordMessage struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// SendDiscordErrorNotification posts a failure embed to the configured
// webhook. A missing webhook URL is not an error: scheduled runs in CI may
// rely on the job status alone.
func SendDiscordErrorNotification(errorMessage string) error {
	url := properties.DiscordErrorNotificationUrl()
	if url == "" {
		return nil
	}

	message := DiscordMessage{
		Embeds: []DiscordEmbed{
			{
				Title:       "🚨 Wheat map update failed",
				Description: errorMessage,
				Color:       16711680, // Red color
			},
		},
	}

	return post(url, message)
}

func SendDiscordSuccessNotification(successMessage string) error {
	url := properties.DiscordSuccessNotificationUrl()
	if url == "" {
		return nil
	}

	message := DiscordMessage{
		Embeds: []DiscordEmbed{
			{
				Title:       "✅ Wheat map updated",
				Description: successMessage,
				Color:       65280, // Green color
			},
		},
	}

	return post(url, message)
}

func post(url string, message DiscordMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send Discord notification, status code: %d", resp.StatusCode)
	}

	return nil
}

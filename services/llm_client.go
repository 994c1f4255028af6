package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

const (
	openAIURL          = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o-2024-05-13"

	llmMaxRetries  = 3
	llmHTTPTimeout = 30 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callChatCompletion sends one prompt to the chat-completions API and
// returns the model's text. Transient failures are retried with
// exponential backoff.
func callChatCompletion(system, prompt string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultOpenAIModel
	}

	requestBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: llmHTTPTimeout}

	var lastErr error
	for attempt := 0; attempt < llmMaxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<attempt) * time.Second
			utils.Log.Warnf("LLM call failed, retrying in %s: %v", wait, lastErr)
			time.Sleep(wait)
		}

		req, err := http.NewRequest(http.MethodPost, openAIURL, bytes.NewBuffer(jsonBody))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			lastErr = fmt.Errorf("LLM API error (status %d): %s", resp.StatusCode, b)
			continue
		}

		var parsed chatResponse
		err = json.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("decode LLM response: %w", err)
			continue
		}
		if len(parsed.Choices) == 0 {
			lastErr = fmt.Errorf("no choices returned")
			continue
		}
		return parsed.Choices[0].Message.Content, nil
	}

	return "", lastErr
}

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

const (
	notionVersion = "2022-06-28"
	// Notion caps rich-text blocks and titles at 2000 characters.
	maxBlockChars = 2000
)

// Client creates one page per structured summary in a Notion database.
type Client struct {
	baseURL    string
	token      string
	databaseID string
	httpClient *http.Client
}

var _ ports.KnowledgeBase = (*Client)(nil)

// NewClient builds a client from base URL, integration token, and database ID.
func NewClient(baseURL, token, databaseID string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		databaseID: databaseID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SavePage posts the summary as a new database page with Summary and
// Key Takeaways sections.
func (c *Client) SavePage(ctx context.Context, summary domain.StructuredSummary) error {
	if c.token == "" || c.databaseID == "" {
		return fmt.Errorf("notion client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"parent":     map[string]string{"database_id": c.databaseID},
		"properties": c.buildProperties(summary),
		"children":   buildChildren(summary),
	})
	if err != nil {
		return fmt.Errorf("marshal page payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notion error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	return nil
}

func (c *Client) buildProperties(summary domain.StructuredSummary) map[string]any {
	title := summary.Title
	if title == "" {
		title = "New Resource"
	}
	if len(title) > maxBlockChars {
		title = title[:maxBlockChars-3] + "..."
	}

	properties := map[string]any{
		"Name":   map[string]any{"title": []any{richText(title)}},
		"URL":    map[string]any{"url": summary.SourceURL},
		"Type":   map[string]any{"select": map[string]string{"name": summary.ResourceType.Label()}},
		"Status": map[string]any{"select": map[string]string{"name": "To Review"}},
	}

	if len(summary.Tags) > 0 {
		options := make([]map[string]string, 0, len(summary.Tags))
		for _, tag := range summary.Tags {
			options = append(options, map[string]string{"name": tag})
		}
		properties["Tags"] = map[string]any{"multi_select": options}
	}

	if summary.ReminderAt != nil {
		properties["Reminder"] = map[string]any{
			"date": map[string]string{"start": summary.ReminderAt.Format(time.RFC3339)},
		}
	}

	return properties
}

func buildChildren(summary domain.StructuredSummary) []any {
	children := []any{heading("Summary")}
	for _, chunk := range chunkText(summary.SummaryText, maxBlockChars) {
		children = append(children, paragraph(chunk))
	}

	if len(summary.KeyPoints) > 0 {
		children = append(children, heading("Key Takeaways"))
		for _, point := range summary.KeyPoints {
			if point == "" {
				continue
			}
			if len(point) > maxBlockChars {
				point = point[:maxBlockChars]
			}
			children = append(children, bullet(point))
		}
	}

	return children
}

// chunkText splits text on paragraph boundaries first, then hard-splits any
// paragraph longer than the block limit.
func chunkText(text string, max int) []string {
	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for len(para) > max {
			chunks = append(chunks, para[:max])
			para = para[max:]
		}
		if para != "" {
			chunks = append(chunks, para)
		}
	}
	return chunks
}

func richText(content string) map[string]any {
	return map[string]any{"text": map[string]string{"content": content}}
}

func heading(text string) map[string]any {
	return map[string]any{
		"object":    "block",
		"type":      "heading_2",
		"heading_2": map[string]any{"rich_text": []any{richText(text)}},
	}
}

func paragraph(text string) map[string]any {
	return map[string]any{
		"object":    "block",
		"type":      "paragraph",
		"paragraph": map[string]any{"rich_text": []any{richText(text)}},
	}
}

func bullet(text string) map[string]any {
	return map[string]any{
		"object":             "block",
		"type":               "bulleted_list_item",
		"bulleted_list_item": map[string]any{"rich_text": []any{richText(text)}},
	}
}

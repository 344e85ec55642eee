package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client: Provisioner + Notifier lewat REST API platform chat.
type Client struct {
	http        *resty.Client
	guildID     string
	staffRoleID string
}

func NewClient(baseURL, token, guildID, staffRoleID string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Authorization", "Bot "+token).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c, guildID: guildID, staffRoleID: staffRoleID}
}

type channelResp struct {
	ID string `json:"id"`
}

type permissionOverwrite struct {
	ID    string `json:"id"`
	Type  int    `json:"type"` // 0=role, 1=member
	Allow string `json:"allow,omitempty"`
	Deny  string `json:"deny,omitempty"`
}

// permission bits: VIEW_CHANNEL | SEND_MESSAGES | READ_MESSAGE_HISTORY
const (
	permTicketAllow = "68608"
	permViewChannel = "1024"
)

func (c *Client) CreatePrivateChannel(ctx context.Context, buyerID string) (string, error) {
	var out channelResp
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"name": channelName(buyerID),
			"type": 0, // text channel
			"permission_overwrites": []permissionOverwrite{
				{ID: c.guildID, Type: 0, Deny: permViewChannel}, // @everyone
				{ID: buyerID, Type: 1, Allow: permTicketAllow},
				{ID: c.staffRoleID, Type: 0, Allow: permTicketAllow},
			},
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/guilds/%s/channels", c.guildID))
	if err != nil {
		return "", fmt.Errorf("create channel: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("create channel: http %d", resp.StatusCode())
	}
	return out.ID, nil
}

func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/channels/%s", channelID))
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("delete channel: http %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) SendToChannel(ctx context.Context, channelID, content string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"content": content}).
		Post(fmt.Sprintf("/channels/%s/messages", channelID))
	if err != nil {
		return fmt.Errorf("send to channel: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send to channel: http %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) SendToUser(ctx context.Context, userID, content string) error {
	// DM = bikin (atau reuse) DM channel dulu, lalu kirim ke situ
	var dm channelResp
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"recipient_id": userID}).
		SetResult(&dm).
		Post("/users/@me/channels")
	if err != nil {
		return fmt.Errorf("open dm: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("open dm: http %d", resp.StatusCode())
	}
	return c.SendToChannel(ctx, dm.ID, content)
}

// channelName: "ticket-{buyer}", lowercase, buang karakter di luar [a-z0-9-].
func channelName(buyerID string) string {
	name := "ticket-" + strings.ToLower(buyerID)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Typed wrappers over Call for each backend endpoint the bot uses.

func (c *Client) Register(ctx context.Context, chatID int64, req RegisterRequest) (int, any) {
	return c.Call(ctx, chatID, http.MethodPost, "/auth/customers/register", nil, req)
}

func (c *Client) Login(ctx context.Context, chatID int64, req LoginRequest) (int, any) {
	return c.Call(ctx, chatID, http.MethodPost, "/auth/customers/login", nil, req)
}

func (c *Client) SendCode(ctx context.Context, chatID int64, customerID string) (int, any) {
	return c.Call(ctx, chatID, http.MethodPost, fmt.Sprintf("/auth/customers/%s/send-code", customerID), nil, nil)
}

func (c *Client) ConfirmCode(ctx context.Context, chatID int64, customerID, code string) (int, any) {
	query := url.Values{"code": {code}}
	return c.Call(ctx, chatID, http.MethodGet, fmt.Sprintf("/auth/customers/%s/confirm", customerID), query, nil)
}

func (c *Client) SearchBusinesses(ctx context.Context, chatID int64, q string, limit, offset int) (int, any) {
	query := url.Values{
		"q":      {q},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	return c.Call(ctx, chatID, http.MethodGet, "/businesses/", query, nil)
}

func (c *Client) ListPunchCards(ctx context.Context, chatID int64, businessID string, limit, offset int) (int, any) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	return c.Call(ctx, chatID, http.MethodGet, fmt.Sprintf("/businesses/%s/punch-cards/", businessID), query, nil)
}

func (c *Client) AddCard(ctx context.Context, chatID int64, customerID, punchCardID string) (int, any) {
	body := map[string]string{"punch_card_id": punchCardID}
	return c.Call(ctx, chatID, http.MethodPost, fmt.Sprintf("/customers/%s/cards/", customerID), nil, body)
}

func (c *Client) ListCards(ctx context.Context, chatID int64, customerID string, limit, offset int) (int, any) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	return c.Call(ctx, chatID, http.MethodGet, fmt.Sprintf("/customers/%s/cards/", customerID), query, nil)
}

func (c *Client) GetCard(ctx context.Context, chatID int64, customerID, cardID string) (int, any) {
	return c.Call(ctx, chatID, http.MethodGet, fmt.Sprintf("/customers/%s/cards/%s", customerID, cardID), nil, nil)
}

func (c *Client) Profile(ctx context.Context, chatID int64, customerID string) (int, any) {
	return c.Call(ctx, chatID, http.MethodGet, fmt.Sprintf("/customers/%s/", customerID), nil, nil)
}

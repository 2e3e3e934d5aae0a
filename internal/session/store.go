package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// KV is the subset of the Redis client the session store needs.
// Get reports a missing key as (nil, nil); TTL reports it as 0.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Store keeps per-chat authentication state: the backend customer id and
// the backend-issued session cookies. Keys have no expiry; the stored
// session is authoritative until an explicit clear on logout.
type Store struct {
	kv KV
}

// cookie is the serialized form of one backend session cookie. Cookies
// are persisted as a JSON list of name/value pairs rather than a single
// opaque header string.
type cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func customerKey(chatID int64) string {
	return fmt.Sprintf("customer_id:%d", chatID)
}

func cookiesKey(chatID int64) string {
	return fmt.Sprintf("cookies:%d", chatID)
}

func resendKey(chatID int64) string {
	return fmt.Sprintf("resend:%d", chatID)
}

// SetCustomerID stores the backend customer id for a chat.
func (s *Store) SetCustomerID(ctx context.Context, chatID int64, customerID string) error {
	if err := s.kv.Set(ctx, customerKey(chatID), []byte(customerID), 0); err != nil {
		return fmt.Errorf("set customer id: %w", err)
	}
	return nil
}

// CustomerID returns the stored customer id, or "" when the chat is not
// authenticated.
func (s *Store) CustomerID(ctx context.Context, chatID int64) (string, error) {
	data, err := s.kv.Get(ctx, customerKey(chatID))
	if err != nil {
		return "", fmt.Errorf("get customer id: %w", err)
	}
	return string(data), nil
}

// ClearCustomer removes both the customer id and the cookie set.
func (s *Store) ClearCustomer(ctx context.Context, chatID int64) error {
	if err := s.kv.Del(ctx, customerKey(chatID), cookiesKey(chatID)); err != nil {
		return fmt.Errorf("clear customer: %w", err)
	}
	return nil
}

// Cookies returns the chat's stored session cookies; nil when none are stored.
func (s *Store) Cookies(ctx context.Context, chatID int64) ([]*http.Cookie, error) {
	data, err := s.kv.Get(ctx, cookiesKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("get cookies: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var stored []cookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal cookies: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies, nil
}

// SetCookies replaces the chat's stored session cookies.
func (s *Store) SetCookies(ctx context.Context, chatID int64, cookies []*http.Cookie) error {
	stored := make([]cookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, cookie{Name: c.Name, Value: c.Value})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}
	if err := s.kv.Set(ctx, cookiesKey(chatID), data, 0); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

// SetResendDeadline arms the verification-code resend cooldown.
func (s *Store) SetResendDeadline(ctx context.Context, chatID int64, cooldown time.Duration) error {
	if err := s.kv.Set(ctx, resendKey(chatID), []byte("1"), cooldown); err != nil {
		return fmt.Errorf("set resend deadline: %w", err)
	}
	return nil
}

// ResendRemaining reports how long until a new verification code may be
// requested. Zero means resend is allowed now.
func (s *Store) ResendRemaining(ctx context.Context, chatID int64) (time.Duration, error) {
	d, err := s.kv.TTL(ctx, resendKey(chatID))
	if err != nil {
		return 0, fmt.Errorf("resend remaining: %w", err)
	}
	return d, nil
}

package api

import (
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"

	"github.com/followme/attendance-cli/pkg/logger"
	"github.com/followme/attendance-cli/pkg/settings"
	"github.com/followme/attendance-cli/pkg/token"
)

// Gateway translates domain operations into HTTP calls against the
// configured attendance server. It holds no business state beyond the
// token cache it persists freshly issued tokens into.
type Gateway struct {
	http   *resty.Client
	tokens *token.Cache
	now    func() time.Time
}

// NewGateway creates a gateway that persists issued tokens in the given cache.
func NewGateway(tokens *token.Cache, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("User-Agent", "FollowMe-CLI/0.1.0")

	httpClient.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})

	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode())
		return nil
	})

	return &Gateway{
		http:   httpClient,
		tokens: tokens,
		now:    time.Now,
	}
}

// Authenticate exchanges credentials for a bearer token and caches it.
func (g *Gateway) Authenticate(baseURL, apiKey, username, password, authRoute string, extensions map[string]string) (*token.Token, error) {
	logger.Debug("Authenticating", "username", username)

	reqBody, err := json.Marshal(AuthRequest{Username: username, Password: password})
	if err != nil {
		return nil, NewError("authentication error: %v", err)
	}

	req := g.http.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-API-Key", apiKey).
		SetBody(reqBody)
	// Extensions go last so they can override the computed headers
	for k, v := range extensions {
		req.SetHeader(k, v)
	}

	resp, err := req.Post(BuildURL(baseURL, authRoute))
	if err != nil {
		return nil, NewError("authentication error: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, NewHTTPError(resp.StatusCode(), "authentication failed")
	}

	var body AuthResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, NewError("authentication failed: invalid response")
	}
	if !body.Success || body.AccessToken == "" || body.ExpiresIn == nil {
		return nil, NewError("authentication failed: invalid response")
	}

	now := g.now()
	tok := &token.Token{
		AccessToken: body.AccessToken,
		ExpiresIn:   *body.ExpiresIn,
		ExpiresAt:   now.Add(time.Duration(*body.ExpiresIn) * time.Second),
		UserID:      body.userID(),
		Role:        body.role(),
		CanEditTags: body.canEditTags(),
	}

	if err := g.tokens.Save(tok); err != nil {
		return nil, NewError("failed to cache token: %v", err)
	}

	logger.Debug("Authentication successful", "userId", tok.UserID, "role", tok.Role)
	return tok, nil
}

// ValidateToken checks the cached token against the validate route. It never
// fails: an absent or expired token, a transport failure, and a negative
// server verdict all read as "not valid", because the caller's response to
// each is the same: re-authenticate.
func (g *Gateway) ValidateToken(baseURL, validateRoute string) bool {
	tok, err := g.tokens.Load()
	if err != nil || tok == nil || tok.IsExpired() {
		return false
	}

	resp, err := g.http.R().
		SetHeader("Authorization", "Bearer "+tok.AccessToken).
		Get(BuildURL(baseURL, validateRoute))
	if err != nil || !resp.IsSuccess() {
		return false
	}

	var body TokenValidationResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return false
	}
	return body.Valid
}

// EnsureAuthenticated returns a server-confirmed token, re-authenticating
// with the stored credentials when the cached one is absent, expired, or
// rejected. Every submission path goes through here first: an unexpired
// token can still be rejected server-side, and validation catches that
// before a batch is wasted.
func (g *Gateway) EnsureAuthenticated(s *settings.Settings) (*token.Token, error) {
	tok, err := g.tokens.Load()
	if err == nil && tok != nil && !tok.IsExpired() {
		if g.ValidateToken(s.APIBaseURL, s.ValidateRoute) {
			return tok, nil
		}
	}

	return g.Authenticate(
		s.APIBaseURL,
		s.APIKey,
		s.Username,
		s.Password,
		s.AuthRoute,
		s.Extensions,
	)
}

// SubmitAttendance posts a batch of attendance records to the main route.
// A valid cached token is a precondition; callers run EnsureAuthenticated
// first.
func (g *Gateway) SubmitAttendance(baseURL, mainRoute string, entries []WireEntry) ([]ResponseItem, error) {
	tok, err := g.tokens.Load()
	if err != nil || tok == nil || tok.IsExpired() {
		return nil, NewError("not authenticated")
	}

	reqBody, err := json.Marshal(entries)
	if err != nil {
		return nil, NewError("submission error: %v", err)
	}

	resp, err := g.http.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+tok.AccessToken).
		SetBody(reqBody).
		Post(BuildURL(baseURL, mainRoute))
	if err != nil {
		return nil, NewError("submission error: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, NewHTTPError(resp.StatusCode(), "submission failed")
	}

	return parseAttendanceResponse(resp.Body()), nil
}

// parseAttendanceResponse decodes the main route's polymorphic response:
// a list of {name, phone} objects, a list of plain name strings, or
// anything else, which reads as an empty result rather than an error.
func parseAttendanceResponse(body []byte) []ResponseItem {
	var raw []interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return []ResponseItem{}
	}

	items := make([]ResponseItem, 0, len(raw))
	for _, elem := range raw {
		switch v := elem.(type) {
		case map[string]interface{}:
			var item ResponseItem
			if name, ok := v["name"].(string); ok {
				item.Name = name
			}
			if phone, ok := v["phone"].(string); ok {
				item.Phone = phone
			}
			items = append(items, item)
		case string:
			items = append(items, ResponseItem{Name: v})
		}
	}
	return items
}

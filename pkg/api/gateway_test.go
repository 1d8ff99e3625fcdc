package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/followme/attendance-cli/pkg/settings"
	"github.com/followme/attendance-cli/pkg/store"
	"github.com/followme/attendance-cli/pkg/token"
)

func newTestGateway(t *testing.T) (*Gateway, *token.Cache) {
	t.Helper()
	cache := token.NewCache(store.NewSecure(filepath.Join(t.TempDir(), "credentials")))
	return NewGateway(cache, 5*time.Second), cache
}

func validToken() *token.Token {
	return &token.Token{
		AccessToken: "tok",
		ExpiresIn:   3600,
		ExpiresAt:   time.Now().Add(time.Hour),
		UserID:      "u1",
	}
}

func TestAuthenticate_TeacherShape(t *testing.T) {
	var gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-API-Key")
		if r.URL.Path != "/auth" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "accessToken": "tok1", "expiresIn": 3600, "teacher": {"id": "7", "role": "Admin"}}`))
	}))
	defer srv.Close()

	gw, cache := newTestGateway(t)
	tok, err := gw.Authenticate(srv.URL, "key123", "user", "pw", "/auth", nil)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if tok.AccessToken != "tok1" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if tok.UserID != "7" {
		t.Errorf("UserID = %q, want 7", tok.UserID)
	}
	if tok.Role != "Admin" {
		t.Errorf("Role = %q, want Admin", tok.Role)
	}
	if !tok.IsAdmin() {
		t.Error("Token with Admin role should be admin")
	}
	if !tok.EffectiveCanEditTags() {
		t.Error("Admin role should imply tag editing")
	}
	if gotAPIKey != "key123" {
		t.Errorf("X-API-Key = %q", gotAPIKey)
	}

	// The issued token must have been cached
	cached, err := cache.Load()
	if err != nil || cached == nil {
		t.Fatalf("Token not cached: %v", err)
	}
	if cached.AccessToken != "tok1" {
		t.Errorf("Cached token mismatch: %q", cached.AccessToken)
	}
	if cached.IsExpired() {
		t.Error("Freshly issued token should not be expired")
	}
}

func TestAuthenticate_RootShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "accessToken": "tok2", "expiresIn": 60, "id": "42", "role": "teacher", "canEditTags": true}`))
	}))
	defer srv.Close()

	gw, _ := newTestGateway(t)
	tok, err := gw.Authenticate(srv.URL, "k", "u", "p", "", nil)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if tok.UserID != "42" || tok.Role != "teacher" {
		t.Errorf("Root-level fields not extracted: %+v", tok)
	}
	if tok.IsAdmin() {
		t.Error("teacher role should not be admin")
	}
	if !tok.EffectiveCanEditTags() {
		t.Error("canEditTags flag should grant tag editing")
	}
}

func TestAuthenticate_UserShapeWinsOverRoot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "accessToken": "t", "expiresIn": 60, "user": {"id": "nested"}, "id": "root"}`))
	}))
	defer srv.Close()

	gw, _ := newTestGateway(t)
	tok, err := gw.Authenticate(srv.URL, "k", "u", "p", "", nil)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if tok.UserID != "nested" {
		t.Errorf("UserID = %q, want nested object to win", tok.UserID)
	}
}

func TestAuthenticate_ExtensionHeadersOverride(t *testing.T) {
	var gotKey, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotExtra = r.Header.Get("X-Tenant")
		w.Write([]byte(`{"success": true, "accessToken": "t", "expiresIn": 60}`))
	}))
	defer srv.Close()

	gw, _ := newTestGateway(t)
	extensions := map[string]string{"X-API-Key": "override", "X-Tenant": "school-a"}
	if _, err := gw.Authenticate(srv.URL, "original", "u", "p", "", extensions); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if gotKey != "override" {
		t.Errorf("Extension should override computed header, got X-API-Key=%q", gotKey)
	}
	if gotExtra != "school-a" {
		t.Errorf("Extension header missing, got X-Tenant=%q", gotExtra)
	}
}

func TestAuthenticate_HTTPFailureCarriesStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	gw, _ := newTestGateway(t)
	_, err := gw.Authenticate(srv.URL, "k", "u", "bad", "", nil)
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if StatusCode(err) != 401 {
		t.Errorf("StatusCode = %d, want 401", StatusCode(err))
	}
	if !IsUnauthorized(err) {
		t.Error("IsUnauthorized should be true")
	}
}

func TestAuthenticate_IncompleteBody(t *testing.T) {
	bodies := []string{
		`{"success": false}`,
		`{"success": true, "expiresIn": 60}`,
		`{"success": true, "accessToken": "t"}`,
		`not json`,
	}

	for _, body := range bodies {
		body := body
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		gw, _ := newTestGateway(t)
		_, err := gw.Authenticate(srv.URL, "k", "u", "p", "", nil)
		if err == nil {
			t.Errorf("Expected error for body %s", body)
		} else if StatusCode(err) != 0 {
			t.Errorf("Malformed success body should carry no status code, got %d", StatusCode(err))
		}
		srv.Close()
	}
}

func TestAuthenticate_NetworkFailure(t *testing.T) {
	gw, _ := newTestGateway(t)
	_, err := gw.Authenticate("http://127.0.0.1:1", "k", "u", "p", "", nil)
	if err == nil {
		t.Fatal("Expected error for unreachable server")
	}
	if StatusCode(err) != 0 {
		t.Errorf("Transport failure should have no status code, got %d", StatusCode(err))
	}
}

func TestValidateToken_NoCachedToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	gw, _ := newTestGateway(t)
	if gw.ValidateToken(srv.URL, "/validate") {
		t.Error("Validation without a token should be false")
	}
	if calls != 0 {
		t.Error("Validation without a token must not hit the network")
	}
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	gw, cache := newTestGateway(t)
	cache.Save(&token.Token{AccessToken: "tok", ExpiresAt: time.Now().Add(-time.Minute)})

	if gw.ValidateToken(srv.URL, "/validate") {
		t.Error("Expired token should not validate")
	}
	if calls != 0 {
		t.Error("Expired token must not hit the network")
	}
}

func TestValidateToken_ServerVerdict(t *testing.T) {
	var gotAuth string
	valid := `{"valid": true}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(valid))
	}))
	defer srv.Close()

	gw, cache := newTestGateway(t)
	cache.Save(validToken())

	if !gw.ValidateToken(srv.URL, "/validate") {
		t.Error("Server said valid, expected true")
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	valid = `{"valid": false}`
	if gw.ValidateToken(srv.URL, "/validate") {
		t.Error("Server said invalid, expected false")
	}
}

func TestValidateToken_RequestFailureReadsAsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw, cache := newTestGateway(t)
	cache.Save(validToken())

	if gw.ValidateToken(srv.URL, "/validate") {
		t.Error("Failed validation request should read as not valid")
	}
}

func TestEnsureAuthenticated_CachedTokenSkipsAuth(t *testing.T) {
	authCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/validate", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valid": true}`))
	})
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		authCalls++
		w.Write([]byte(`{"success": true, "accessToken": "fresh", "expiresIn": 60}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gw, cache := newTestGateway(t)
	cache.Save(validToken())

	s := settings.Default()
	s.APIBaseURL = srv.URL
	s.AuthRoute = "/auth"
	s.ValidateRoute = "/validate"

	tok, err := gw.EnsureAuthenticated(s)
	if err != nil {
		t.Fatalf("EnsureAuthenticated failed: %v", err)
	}
	if tok.AccessToken != "tok" {
		t.Errorf("Expected cached token, got %q", tok.AccessToken)
	}
	if authCalls != 0 {
		t.Errorf("Auth route must not be called when cached token validates, got %d calls", authCalls)
	}
}

func TestEnsureAuthenticated_RejectedTokenReauthenticates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/validate", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valid": false}`))
	})
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "accessToken": "fresh", "expiresIn": 60}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gw, cache := newTestGateway(t)
	cache.Save(validToken())

	s := settings.Default()
	s.APIBaseURL = srv.URL
	s.AuthRoute = "/auth"
	s.ValidateRoute = "/validate"

	tok, err := gw.EnsureAuthenticated(s)
	if err != nil {
		t.Fatalf("EnsureAuthenticated failed: %v", err)
	}
	if tok.AccessToken != "fresh" {
		t.Errorf("Expected fresh token after rejection, got %q", tok.AccessToken)
	}
}

func TestSubmitAttendance_RequiresToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	gw, _ := newTestGateway(t)
	_, err := gw.SubmitAttendance(srv.URL, "/attendance", []WireEntry{{Name: "a"}})
	if err == nil {
		t.Fatal("Expected not-authenticated error")
	}
	if calls != 0 {
		t.Error("Unauthenticated submission must not hit the network")
	}
}

func TestSubmitAttendance_ObjectList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`[{"name": "Alice", "phone": "555"}, {"name": "UNMATCHED", "phone": null}]`))
	}))
	defer srv.Close()

	gw, cache := newTestGateway(t)
	cache.Save(validToken())

	items, err := gw.SubmitAttendance(srv.URL, "/attendance", []WireEntry{{Name: "Alice"}})
	if err != nil {
		t.Fatalf("SubmitAttendance failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Alice" || items[0].Phone != "555" {
		t.Errorf("First item mismatch: %+v", items[0])
	}
	if items[1].Name != "UNMATCHED" || items[1].Phone != "" {
		t.Errorf("Second item mismatch: %+v", items[1])
	}
}

func TestSubmitAttendance_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw, cache := newTestGateway(t)
	cache.Save(validToken())

	_, err := gw.SubmitAttendance(srv.URL, "/attendance", nil)
	if err == nil {
		t.Fatal("Expected error for 502")
	}
	if StatusCode(err) != 502 {
		t.Errorf("StatusCode = %d, want 502", StatusCode(err))
	}
	if !IsServerError(err) {
		t.Error("IsServerError should be true for 502")
	}
}

func TestParseAttendanceResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []ResponseItem
	}{
		{
			name: "object list",
			body: `[{"name": "Alice", "phone": "555"}]`,
			want: []ResponseItem{{Name: "Alice", Phone: "555"}},
		},
		{
			name: "string list",
			body: `["Alice", "Bob"]`,
			want: []ResponseItem{{Name: "Alice"}, {Name: "Bob"}},
		},
		{
			name: "mixed list keeps recognized elements",
			body: `["Alice", {"name": "Bob"}, 42]`,
			want: []ResponseItem{{Name: "Alice"}, {Name: "Bob"}},
		},
		{
			name: "object instead of array",
			body: `{"ok": true}`,
			want: []ResponseItem{},
		},
		{
			name: "garbage",
			body: `!!`,
			want: []ResponseItem{},
		},
		{
			name: "null fields",
			body: `[{"name": null, "phone": null}]`,
			want: []ResponseItem{{}},
		},
	}

	for _, tt := range tests {
		got := parseAttendanceResponse([]byte(tt.body))
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %d items, want %d", tt.name, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: item %d = %+v, want %+v", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}

package auth_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/inbox-digest/internal/auth"
)

func TestParseScheme(t *testing.T) {
	cases := []struct {
		in       string
		expected auth.Scheme
		wantErr  bool
	}{
		{in: "", expected: auth.SchemeAPIKey},
		{in: "x-api-key", expected: auth.SchemeAPIKey},
		{in: "bearer", expected: auth.SchemeBearer},
		{in: "basic", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			s, err := auth.ParseScheme(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestCredentialsTransport(t *testing.T) {
	var gotAPIKey, gotAuthorization string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotAuthorization = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cases := []struct {
		name          string
		creds         *auth.Credentials
		expectedKey   string
		expectedAuthz string
	}{
		{
			name:        "api_key_header",
			creds:       auth.NewCredentials("secret-1234", auth.SchemeAPIKey),
			expectedKey: "secret-1234",
		},
		{
			name:          "bearer",
			creds:         auth.NewCredentials("secret-5678", auth.SchemeBearer),
			expectedAuthz: "Bearer secret-5678",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotAPIKey, gotAuthorization = "", ""
			clt := &http.Client{Transport: tc.creds.Transport(nil)}

			resp, err := clt.Get(srv.URL)
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.Equal(t, tc.expectedKey, gotAPIKey)
			assert.Equal(t, tc.expectedAuthz, gotAuthorization)
		})
	}
}

func TestCredentialsMissingKey(t *testing.T) {
	c := auth.NewCredentials("", auth.SchemeAPIKey)

	_, err := c.APIKey()
	require.ErrorIs(t, err, auth.ErrTokenNotSet)

	_, err = c.Token()
	require.ErrorIs(t, err, auth.ErrTokenNotSet)
}

func TestHTTPHandler(t *testing.T) {
	cases := []struct {
		name         string
		creds        *auth.Credentials
		expectedCode int
		expectedBody string
	}{
		{
			name:         "configured",
			creds:        auth.NewCredentials("abcdefgh1234", auth.SchemeBearer),
			expectedCode: http.StatusOK,
			expectedBody: "Agent: agent-1, key: XXXXXXXX1234, scheme: bearer",
		},
		{
			name:         "missing",
			creds:        auth.NewCredentials("", auth.SchemeAPIKey),
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: "Agent API key not configured\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			auth.NewHTTPHandler(tc.creds, "agent-1").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agent/status", nil))

			body, err := io.ReadAll(rec.Result().Body)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, tc.expectedBody, string(body))
		})
	}
}

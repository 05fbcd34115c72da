package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/kracker/internal/logging"
	"github.com/dmitrijs2005/kracker/internal/server/auth"
	"github.com/dmitrijs2005/kracker/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, userName, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, userName, email, password)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, login, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, login, password)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context) (auth.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *MockAuthService) IssueDevToken(subject, userName string) (*services.DevToken, error) {
	args := m.Called(subject, userName)
	res, _ := args.Get(0).(*services.DevToken)
	return res, args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(token string) (auth.Identity, error) {
	args := m.Called(token)
	return args.Get(0).(auth.Identity), args.Error(1)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func do(t *testing.T, h http.Handler, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

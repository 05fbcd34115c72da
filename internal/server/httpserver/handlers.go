package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/kracker/internal/common"
	"github.com/dmitrijs2005/kracker/internal/logging"
	"github.com/dmitrijs2005/kracker/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Machine-readable error codes returned in {"error": ...}.
const (
	errCodeInvalidJSON        = "invalid_json"
	errCodeWeakInput          = "weak_input"
	errCodeRegisterFailed     = "register_failed"
	errCodeMissingFields      = "missing_fields"
	errCodeInvalidCredentials = "invalid_credentials"
	errCodeMissingBearer      = "missing_bearer"
	errCodeInvalidToken       = "invalid_token"
	errCodeInternal           = "internal_error"
)

const dbDownMessage = "SELECT 1 failed"

type errorResponse struct {
	Error    string `json:"error"`
	Detail   string `json:"detail,omitempty"`
	SQLState string `json:"sqlstate,omitempty"`
}

type registerRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"username_or_email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID          string `json:"id"`
	UserName    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

type meResponse struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
}

type devTokenResponse struct {
	AccessToken string `json:"accessToken"`
	Subject     string `json:"sub"`
	UserName    string `json:"username"`
}

type dbHealthResponse struct {
	OK    bool   `json:"ok"`
	DB    string `json:"db"`
	Error string `json:"error,omitempty"`
}

type handler struct {
	auth              AuthService
	db                Pinger
	logger            logging.Logger
	exposeDiagnostics bool
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// dbHealth always answers 200; the body carries the store state.
func (h *handler) dbHealth(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		resp := dbHealthResponse{OK: false, DB: "down", Error: dbDownMessage}
		if h.exposeDiagnostics {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusOK, dbHealthResponse{OK: true, DB: "up"})
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errCodeInvalidJSON})
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeakInput):
			c.JSON(http.StatusBadRequest, errorResponse{Error: errCodeWeakInput})
		case errors.Is(err, services.ErrRegisterFailed):
			c.JSON(http.StatusBadRequest, h.registerFailed(err))
		default:
			h.internal(c, "register failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, authResponse{ID: res.ID, UserName: res.UserName, AccessToken: res.AccessToken})
}

func (h *handler) registerFailed(err error) errorResponse {
	resp := errorResponse{Error: errCodeRegisterFailed}
	if !h.exposeDiagnostics {
		return resp
	}
	var conflict *common.ConflictError
	if errors.As(err, &conflict) {
		resp.SQLState = conflict.SQLState
		resp.Detail = conflict.Error()
	}
	return resp
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errCodeInvalidJSON})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, errorResponse{Error: errCodeMissingFields})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, errorResponse{Error: errCodeInvalidCredentials})
		default:
			h.internal(c, "login failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, authResponse{ID: res.ID, UserName: res.UserName, AccessToken: res.AccessToken})
}

func (h *handler) me(c *gin.Context) {
	id, err := h.auth.Me(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: errCodeInvalidToken})
		return
	}
	c.JSON(http.StatusOK, meResponse{ID: id.UserID, UserName: id.UserName})
}

func (h *handler) devToken(c *gin.Context) {
	tok, err := h.auth.IssueDevToken(c.Query("sub"), c.Query("username"))
	if err != nil {
		h.internal(c, "dev token failed", err)
		return
	}
	c.JSON(http.StatusOK, devTokenResponse{AccessToken: tok.AccessToken, Subject: tok.Subject, UserName: tok.UserName})
}

func (h *handler) internal(c *gin.Context, msg string, err error) {
	h.logger.Error(c.Request.Context(), msg, "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: errCodeInternal})
}

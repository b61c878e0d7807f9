package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"video-bot/domain/dto"
	"video-bot/domain/model"
	"video-bot/domain/repository"
	"video-bot/infrastructure/logger"
	"video-bot/infrastructure/utils"
	"video-bot/usecase"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// IRedditAuthHandler implements the operator-facing authorization handshake:
// password login, starting the Reddit authorize redirect and the callback.
type IRedditAuthHandler interface {
	Login(c *gin.Context)
	Authorize(c *gin.Context)
	Callback(c *gin.Context)
}

// RedditAuthConfig is the handler's slice of the application configuration.
type RedditAuthConfig struct {
	AuthorizeURL string
	RedirectURL  string
	ClientID     string
	SecretKey    string
	FormPassword string
}

type RedditAuthHandler struct {
	cfg         RedditAuthConfig
	authState   repository.IAuthState
	credentials usecase.ICredentialUsecase
}

func NewRedditAuthHandler(cfg RedditAuthConfig, authState repository.IAuthState, credentials usecase.ICredentialUsecase) IRedditAuthHandler {
	return &RedditAuthHandler{cfg: cfg, authState: authState, credentials: credentials}
}

// Login trades the operator form password for a session token that gates the
// authorize endpoint.
func (h *RedditAuthHandler) Login(c *gin.Context) {
	var req model.ReqLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while unmarshal")
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: fmt.Sprintf("Error while unmarshal: %v", err)})
		return
	}

	if h.cfg.FormPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.FormPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Invalid password."})
		return
	}

	token, err := utils.GenerateToken(map[string]interface{}{
		"sub": "operator",
		"exp": utils.GetCurrentTime().Add(time.Hour).Unix(),
	}, h.cfg.SecretKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Error while generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: gin.H{"token": token}})
}

// Authorize stores a fresh single-use state token and returns the Reddit
// authorization URL the operator should be redirected to.
func (h *RedditAuthHandler) Authorize(c *gin.Context) {
	var form model.AuthorizeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while unmarshal")
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: fmt.Sprintf("Error while unmarshal: %v", err)})
		return
	}
	if form.State == "" {
		form.State = utils.GenerateState()
	}
	if form.ResponseType == "" {
		form.ResponseType = "code"
	}

	if err := h.authState.Set(c.Request.Context(), form.State); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to store the authorization state token")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Failed to store the authorization state"})
		return
	}

	oauthConfig := &oauth2.Config{
		ClientID:    form.ClientID,
		RedirectURL: form.RedirectURL,
		Endpoint:    oauth2.Endpoint{AuthURL: h.cfg.AuthorizeURL},
	}
	authorizeURL := oauthConfig.AuthCodeURL(form.State,
		oauth2.SetAuthURLParam("response_type", form.ResponseType),
		oauth2.SetAuthURLParam("duration", form.Duration),
		oauth2.SetAuthURLParam("scope", form.Scope),
	)

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: gin.H{"authorizeUrl": authorizeURL}})
}

// Callback consumes the redirect from Reddit: the returned state must match
// the pending one exactly once, then the authorization code is exchanged and
// the token persisted.
func (h *RedditAuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		logger.GetLogger().WithField("error", errParam).Error("Reddit authorization was denied")
		c.String(http.StatusBadRequest, "Authorization failed: %s", errParam)
		return
	}

	matched, err := h.authState.Consume(c.Request.Context(), c.Query("state"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to check the authorization state token")
		c.String(http.StatusInternalServerError, "Failed to check the authorization state")
		return
	}
	if !matched {
		logger.GetLogger().Error("The state string from reddit does not match the state string from the authorization form")
		c.String(http.StatusBadRequest, "State does not match")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "Authorization code not found")
		return
	}

	if _, err := h.credentials.ExchangeAuthorizationCode(c.Request.Context(), code); err != nil {
		c.String(http.StatusBadGateway, "Failed to get Oauth token from Reddit")
		return
	}

	c.String(http.StatusOK, "Authorization successful and state matches. ")
}

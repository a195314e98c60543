package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"brickshot/config"
	"brickshot/database"
	"brickshot/internal/domain/users"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const (
	googleIssuer    = "https://accounts.google.com"
	stateCookie     = "oauth_state"
	stateCookieSecs = 300
)

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.GOOGLE_REDIRECT_URL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func GoogleStart(c *gin.Context) {
	if !config.GoogleEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	secure := strings.HasPrefix(config.GOOGLE_REDIRECT_URL, "https://")
	c.SetCookie(stateCookie, state, stateCookieSecs, "/", "", secure, true)
	c.Redirect(http.StatusFound, googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func GoogleCallback(c *gin.Context) {
	if !config.GoogleEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}
	if cookieState, err := c.Cookie(stateCookie); err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	ctx := c.Request.Context()
	tok, err := googleOAuthConfig().Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to reach Google"})
		return
	}
	idToken, err := provider.Verifier(&oidc.Config{ClientID: config.GOOGLE_CLIENT_ID}).Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id_token"})
		return
	}
	var claims googleIdentity
	if err := idToken.Claims(&claims); err != nil || claims.Sub == "" || claims.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token missing required claims"})
		return
	}

	user, err := findOrCreateGoogleUser(database.DB.WithContext(ctx), claims)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	tokenString, err := issueAppJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}

	if config.GOOGLE_FRONTEND_REDIRECT == "" {
		c.JSON(http.StatusOK, gin.H{"token": tokenString})
		return
	}
	c.Redirect(http.StatusFound, config.GOOGLE_FRONTEND_REDIRECT+"?token="+url.QueryEscape(tokenString))
}

type googleIdentity struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// findOrCreateGoogleUser resolves a Google identity to a user: by subject
// first, then by verified email (linking the subject), else a new account.
func findOrCreateGoogleUser(db *gorm.DB, id googleIdentity) (users.User, error) {
	var user users.User

	err := db.Where("google_sub = ?", id.Sub).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(id.Email))
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if !id.EmailVerified {
			return users.User{}, errors.New("google email not verified")
		}
		if user.GoogleSub == nil {
			sub := id.Sub
			user.GoogleSub = &sub
			if err := db.Save(&user).Error; err != nil {
				return users.User{}, err
			}
		}
		return user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return users.User{}, err
	}

	sub := id.Sub
	user = users.User{
		Name:         firstNonEmpty(id.GivenName, id.Name),
		Lastname:     id.FamilyName,
		Email:        email,
		AuthProvider: users.ProviderGoogle,
		GoogleSub:    &sub,
		Role:         "user",
	}
	if err := db.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bloodlink/internal"
	"bloodlink/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const cognitoGroupsClaim = "cognito:groups"

type tokenVerifier func(ctx context.Context, accessToken string) (*identity, error)

// jwksVerifier checks the token signature against the issuer's cached JWKS.
func jwksVerifier(cache *jwk.Cache, jwksURL string) tokenVerifier {
	return func(ctx context.Context, accessToken string) (*identity, error) {
		set, err := cache.Lookup(ctx, jwksURL)
		if err != nil {
			return nil, fmt.Errorf("fetch jwks: %w", err)
		}

		token, err := jwt.Parse(
			[]byte(accessToken),
			jwt.WithKeySet(set),
			jwt.WithValidate(true),
		)
		if err != nil {
			return nil, fmt.Errorf("parse jwt: %w", err)
		}

		userID, ok := token.Subject()
		if !ok || userID == "" {
			return nil, errors.New("no user id in jwt subject claim")
		}

		id := &identity{UserID: userID}

		// email and groups are optional
		var email string
		if err := token.Get("email", &email); err == nil {
			id.Email = email
		}

		var groups []any
		if err := token.Get(cognitoGroupsClaim, &groups); err == nil {
			id.Groups = stringClaims(groups)
		}

		return id, nil
	}
}

func stringClaims(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	if !required(email) || !required(req.Password) {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: cognitotypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": req.Password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(r.Context(), input)
	if err != nil {
		// NotAuthorizedException, UserNotConfirmedException, etc.
		s.logger.WithError(err).WithField("email", email).Info("login rejected")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		writeError(w, http.StatusUnauthorized, "login failed")
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	// Browsers get an httpOnly cookie, mobile clients use the token in the body.
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, types.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	})
}

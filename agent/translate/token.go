package translate

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const TranslationScope = "https://www.googleapis.com/auth/cloud-translation"

// NewTokenSource prefers a configured access token and falls back to
// application default credentials.
func NewTokenSource(ctx context.Context, accessToken string) (oauth2.TokenSource, error) {
	if token := strings.TrimSpace(accessToken); token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}), nil
	}

	ts, err := google.DefaultTokenSource(ctx, TranslationScope)
	if err != nil {
		return nil, fmt.Errorf("default google credentials: %w", err)
	}
	return oauth2.ReuseTokenSource(nil, ts), nil
}

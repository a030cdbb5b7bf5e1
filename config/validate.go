package config

import (
	"fmt"
	"strings"
)

const minJWTSecretLength = 32

type prefixRule struct {
	name     string
	value    string
	prefixes []string
}

// Validate checks the shape of every configured secret and URL. It does not
// contact any provider. Each returned string describes one problem.
func (c *Config) Validate() []string {
	var problems []string

	if c.Database.URL == "" && c.Database.Host == "" {
		problems = append(problems, "DATABASE_URL or DATABASE_HOST must be set")
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d characters", minJWTSecretLength))
	}

	rules := []prefixRule{
		{"DATABASE_URL", c.Database.URL, []string{"postgres://", "postgresql://"}},
		{"APP_BASE_URL", c.BaseURL, []string{"http://", "https://"}},
		{"STRIPE_SECRET_KEY", c.Stripe.SecretKey, []string{"sk_test_", "sk_live_", "rk_test_", "rk_live_"}},
		{"STRIPE_PUBLISHABLE_KEY", c.Stripe.PublishableKey, []string{"pk_test_", "pk_live_"}},
		{"STRIPE_WEBHOOK_SECRET", c.Stripe.WebhookSecret, []string{"whsec_"}},
		{"STRIPE_PRICE_ID", c.Stripe.PriceID, []string{"price_"}},
		{"RESEND_API_KEY", c.Email.ResendApiKey, []string{"re_"}},
	}
	for _, r := range rules {
		if r.value == "" {
			continue
		}
		if !hasAnyPrefix(r.value, r.prefixes) {
			problems = append(problems, fmt.Sprintf("%s should start with one of %s", r.name, strings.Join(r.prefixes, ", ")))
		}
	}

	if c.Stripe.SecretKey != "" && c.Stripe.PublishableKey != "" {
		if strings.Contains(c.Stripe.SecretKey, "_live_") != strings.Contains(c.Stripe.PublishableKey, "_live_") {
			problems = append(problems, "STRIPE_SECRET_KEY and STRIPE_PUBLISHABLE_KEY mix live and test mode")
		}
	}
	if c.Stripe.SecretKey != "" && c.Stripe.WebhookSecret == "" {
		problems = append(problems, "STRIPE_WEBHOOK_SECRET is required when STRIPE_SECRET_KEY is set")
	}
	if c.Email.ResendApiKey != "" && !strings.Contains(c.Email.From, "@") {
		problems = append(problems, "EMAIL_FROM must contain an email address")
	}
	if (c.Storage.B2KeyID == "") != (c.Storage.B2AppKey == "") {
		problems = append(problems, "B2_KEY_ID and B2_APP_KEY must be set together")
	}
	if c.Storage.B2KeyID != "" && c.Storage.B2Bucket == "" {
		problems = append(problems, "B2_BUCKET is required when B2 credentials are set")
	}
	return problems
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

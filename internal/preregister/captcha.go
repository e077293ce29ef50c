package preregister

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrCaptchaRejected = errors.New("captcha rejected")

// CaptchaVerifier checks a captcha response token
type CaptchaVerifier interface {
	Verify(ctx context.Context, response, remoteIP string) error
}

// RecaptchaVerifier calls Google's siteverify endpoint
type RecaptchaVerifier struct {
	secret string
	url    string
	client *http.Client
}

func NewRecaptchaVerifier(secret, verifyURL string, client *http.Client) *RecaptchaVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &RecaptchaVerifier{secret: secret, url: verifyURL, client: client}
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, response, remoteIP string) error {
	form := url.Values{
		"secret":   {v.secret},
		"response": {response},
		"remoteip": {remoteIP},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to verify captcha: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read captcha response: %w", err)
	}

	if !gjson.GetBytes(body, "success").Bool() {
		return fmt.Errorf("%w: %s", ErrCaptchaRejected, gjson.GetBytes(body, "error-codes").Raw)
	}
	return nil
}

// noCaptcha accepts everything; used when no secret is configured
type noCaptcha struct{}

func (noCaptcha) Verify(context.Context, string, string) error { return nil }

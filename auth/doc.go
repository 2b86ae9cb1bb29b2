// Package auth issues and verifies the HMAC-signed JWT bearer tokens that
// guard the speech API when authentication is enabled.
//
// Tokens carry only registered claims: the subject names the calling
// client, and issuer and audience are checked when configured.
//
//	svc, err := auth.NewService(cfg.Auth)
//	token, err := svc.Issue("transcriber-batch")
//	claims, err := svc.Parse(token)
package auth

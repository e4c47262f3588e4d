package auth

import (
	"context"
	"fmt"

	"auvora-crm/config"
	"auvora-crm/internal/domain/users"
	"auvora-crm/internal/infra/mailer"
)

func SendPasswordResetEmail(ctx context.Context, user users.User, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", config.APP_URL, token)
	body := fmt.Sprintf("Hi %s,\n\nUse the link below to choose a new password. It expires in one hour.\n\n%s\n\nIf you didn't ask for this, you can ignore this email.", user.Name, link)

	return mailer.Default.Send(ctx, mailer.Mail{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Reset your Auvora password",
		Text:    body,
	})
}

func SendInviteEmail(ctx context.Context, user users.User, tenantName string) error {
	body := fmt.Sprintf("Hi %s,\n\nYou've been added to %s on Auvora. Sign in at %s/login.", user.Name, tenantName, config.APP_URL)

	return mailer.Default.Send(ctx, mailer.Mail{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "You're invited to " + tenantName,
		Text:    body,
	})
}

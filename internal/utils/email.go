package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"
)

// SendPasswordResetEmail envoie le lien de réinitialisation de mot de passe
func SendPasswordResetEmail(to, resetLink string) error {
	msg := mail.NewMsg()

	if err := msg.From("noreply@toytopia.shop"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Réinitialisation de votre mot de passe ToyTopia")
	msg.SetBodyString(mail.TypeTextHTML, passwordResetHTML(resetLink))

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de réinitialisation à", to)
	return client.DialAndSend(msg)
}

func passwordResetHTML(resetLink string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Réinitialisation du mot de passe</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Réinitialisation de votre mot de passe</h2>
		<p>Bonjour,</p>
		<p>Vous avez demandé la réinitialisation de votre mot de passe ToyTopia.
		Cliquez sur le bouton ci-dessous pour en choisir un nouveau :</p>
		<p style="text-align: center; margin: 30px 0;">
			<a href="%s" style="background-color: #ff6b6b; color: white; padding: 12px 24px; border-radius: 6px; text-decoration: none;">
				Réinitialiser mon mot de passe
			</a>
		</p>
		<p>Ce lien expire dans 30 minutes. Si vous n'êtes pas à l'origine de cette
		demande, ignorez simplement cet e-mail.</p>
		<p style="color: #999; font-size: 12px;">L'équipe ToyTopia 🧸</p>
	</div>
</body>
</html>`, resetLink)
}

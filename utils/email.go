package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Rahat-721/GiveBD/models"
	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendDonationReceipt emails a receipt for a successfully settled donation.
// Callers treat failures as non-fatal; the donation is already settled.
func SendDonationReceipt(to, donorName, campaignTitle string, donation *models.Donation) error {
	if to == "" {
		return nil
	}
	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your donation receipt")

	name := donorName
	if name == "" {
		name = "Donor"
	}
	body := fmt.Sprintf(`
		<h2>Thank you, %s!</h2>
		<p>Your donation has been received.</p>
		<ul>
			<li>Campaign: %s</li>
			<li>Amount: %.2f %s</li>
			<li>Transaction ID: %s</li>
			<li>Date: %s</li>
		</ul>
		<p>You can download a PDF receipt from your donation history.</p>
	`, name, campaignTitle, donation.Amount, donation.Currency,
		donation.TransactionID, donation.UpdatedAt.Format("2006-01-02 15:04:05"))
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %v", err)
	}

	return nil
}

package services

import (
	"fmt"
	"os"

	"classtrack/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendClassReminder emails a class reminder to an account that opted in
func (s *EmailService) SendClassReminder(account models.Account, reminder models.ReminderRecord) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(account.Username, account.Email)

	subject := fmt.Sprintf("Reminder: %s starts at %s", reminder.CourseName, reminder.StartTime)

	plainContent := fmt.Sprintf("Hello %s, your class %s (%s) starts at %s in %s. Don't be late!",
		account.Username, reminder.CourseName, reminder.CourseCode, reminder.StartTime, reminder.Location)

	htmlContent := fmt.Sprintf("<p>Hello %s,</p><p>Your class <strong>%s</strong> (%s) starts at %s in %s.</p><p>Don't be late!</p>",
		account.Username, reminder.CourseName, reminder.CourseCode, reminder.StartTime, reminder.Location)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)

	response, err := s.client.Send(message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", account.Email, response.StatusCode)
	}

	return nil
}

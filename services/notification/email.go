package notification

import (
	"fmt"

	"schoolms/config"
	"schoolms/models"
	examModels "schoolms/models/exam"
	"schoolms/scoring"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendResultEmail mails the graded result to the student via SendGrid.
// Skipped silently when no API key is configured (local development).
func sendResultEmail(user models.User, exam examModels.Exam, result scoring.Result) error {
	if config.AppConfig.SendGridAPIKey == "" {
		return nil
	}

	from := sgmail.NewEmail("School Exams", config.AppConfig.EmailSender)
	to := sgmail.NewEmail(user.Name, user.Email)
	subject := fmt.Sprintf("Your result for %s", exam.Title)

	plain := fmt.Sprintf(
		"Hello %s,\n\nYou scored %d out of %d (%d%%) on %s. Grade: %s.\n",
		user.Name, result.Score, result.TotalMarks, result.Percentage, exam.Title, result.Grade,
	)
	html := fmt.Sprintf(
		`<p>Hello %s,</p><p>You scored <b>%d</b> out of <b>%d</b> (%d%%) on <b>%s</b>.</p><p>Grade: <b>%s</b></p>`,
		user.Name, result.Score, result.TotalMarks, result.Percentage, exam.Title, result.Grade,
	)

	message := sgmail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)

	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

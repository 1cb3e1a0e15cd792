// Package notification delivers post-submission notices: a result email to the
// student and an optional webhook POST for external consumers. Delivery is
// best-effort and fire-and-forget; grading never waits on it.
package notification

import (
	"log"

	"schoolms/models"
	examModels "schoolms/models/exam"
	"schoolms/scoring"
)

// SendExamResult pushes the graded result to every configured channel.
// Intended to be called in a goroutine after the attempt is persisted.
func SendExamResult(user models.User, exam examModels.Exam, result scoring.Result, reference string) {
	if err := sendResultEmail(user, exam, result); err != nil {
		log.Printf("Error sending result email to %s: %v", user.Email, err)
	}
	if err := postResultWebhook(user, exam, result, reference); err != nil {
		log.Printf("Error posting result webhook: %v", err)
	}
}

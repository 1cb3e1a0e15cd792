package notification

import (
	"fmt"
	"time"

	"schoolms/config"
	"schoolms/models"
	examModels "schoolms/models/exam"
	"schoolms/scoring"

	"github.com/go-resty/resty/v2"
)

// postResultWebhook POSTs a graded-submission event to the configured URL.
// No-op when RESULT_WEBHOOK_URL is unset.
func postResultWebhook(user models.User, exam examModels.Exam, result scoring.Result, reference string) error {
	url := config.AppConfig.ResultWebhookURL
	if url == "" {
		return nil
	}

	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":       "exam.submitted",
			"reference":   reference,
			"student_id":  user.ID,
			"exam_id":     exam.ID,
			"exam_title":  exam.Title,
			"score":       result.Score,
			"total_marks": result.TotalMarks,
			"percentage":  result.Percentage,
			"grade":       result.Grade,
		}).
		Post(url)
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

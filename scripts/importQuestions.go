package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"schoolms/config"
	"schoolms/database"
	examModels "schoolms/models/exam"

	"gorm.io/gorm"
)

// Imports a question bank from questions.csv into an existing exam.
// Expected columns: exam_id, text, type, options (pipe-separated), correct_answer, marks, time_limit_seconds
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	// Open CSV file
	file, err := os.Open("questions.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	// Create CSV reader
	reader := csv.NewReader(file)

	// Read all records
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	// Skip header row
	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	inserted := 0
	skipped := 0

	for i, row := range records[1:] {
		examID := parseInt(getField(row, headerIndex, "exam_id"))
		text := getField(row, headerIndex, "text")
		qType := strings.ToUpper(getField(row, headerIndex, "type"))
		options := splitOptions(getField(row, headerIndex, "options"))
		correct := getField(row, headerIndex, "correct_answer")
		marks := parseInt(getField(row, headerIndex, "marks"))
		timeLimit := parseInt(getField(row, headerIndex, "time_limit_seconds"))

		if qType == examModels.TypeTrueFalse {
			options = append([]string(nil), examModels.TrueFalseOptions...)
		}

		if examID <= 0 || text == "" || correct == "" || !containsOption(options, correct) {
			log.Printf("Skipping row %d: missing fields or correct answer not in options", i+2)
			skipped++
			continue
		}
		if marks <= 0 {
			marks = 1
		}
		if timeLimit <= 0 {
			timeLimit = examModels.DefaultTimeLimitSeconds
		}

		var exam examModels.Exam
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", examID, false).First(&exam).Error; err != nil {
			log.Printf("Skipping row %d: exam %d not found", i+2, examID)
			skipped++
			continue
		}

		question := examModels.Question{
			ExamID:           uint(examID),
			Text:             text,
			Type:             qType,
			CorrectAnswer:    correct,
			Marks:            marks,
			TimeLimitSeconds: timeLimit,
		}
		if err := question.SetOptions(options); err != nil {
			log.Printf("Skipping row %d: %v", i+2, err)
			skipped++
			continue
		}

		err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			return tx.Model(&exam).Update("total_marks", gorm.Expr("total_marks + ?", question.Marks)).Error
		})
		if err != nil {
			log.Printf("Failed to insert row %d: %v", i+2, err)
			skipped++
			continue
		}
		inserted++
	}

	log.Printf("Import finished. Inserted: %d, Skipped: %d", inserted, skipped)
}

func getField(row []string, headerIndex map[string]int, name string) string {
	idx, ok := headerIndex[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func splitOptions(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}

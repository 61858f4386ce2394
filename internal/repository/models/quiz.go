package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a []string as a JSON array column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		// nil 슬라이스는 빈 JSON 배열 "[]"로 저장
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("StringSlice Scan: %w", err)
	}
	if data == nil {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// Question is one stored question. The JSON layout matches the generator's
// output so quiz_data can be written without translation.
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

// QuestionList stores the ordered questions as a JSON array column.
type QuestionList []Question

// Value implements the driver.Valuer interface
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionList) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("QuestionList Scan: %w", err)
	}
	if data == nil {
		*q = QuestionList{}
		return nil
	}
	return json.Unmarshal(data, q)
}

// jsonBytes 스캔한 컬럼 값을 []byte로 정규화. nil이면 빈 값으로 취급
func jsonBytes(value interface{}) ([]byte, error) {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, errors.New("unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return data, nil
}

// Quiz is a row of the quizzes table.
type Quiz struct {
	ID            string         `db:"id"`
	URL           string         `db:"url"`
	Title         string         `db:"title"`
	Summary       sql.NullString `db:"summary"`
	Sections      StringSlice    `db:"sections"`
	QuizData      QuestionList   `db:"quiz_data"`
	RelatedTopics StringSlice    `db:"related_topics"`
	LastScore     int            `db:"last_score"`
	HighScore     int            `db:"high_score"`
	CreatedAt     time.Time      `db:"created_at"`
}

// QuizSummary is the listing projection of the quizzes table.
type QuizSummary struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	URL       string    `db:"url"`
	LastScore int       `db:"last_score"`
	HighScore int       `db:"high_score"`
	CreatedAt time.Time `db:"created_at"`
}

// ScoreRow holds the score columns read back after an update.
type ScoreRow struct {
	LastScore int `db:"last_score"`
	HighScore int `db:"high_score"`
}

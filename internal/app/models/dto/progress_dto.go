package dto

import "github.com/yigit/gradplanner/internal/app/models"

// AverageGradeResponse carries the weighted average letter
type AverageGradeResponse struct {
	Grade string `json:"grade" example:"B"`
}

// PrerequisiteCheckResponse reports whether a course can be taken now
type PrerequisiteCheckResponse struct {
	Code      string   `json:"code" example:"BCJ0204-15"`
	Satisfied bool     `json:"satisfied" example:"false"`
	Missing   []string `json:"missing"`
}

// ClassificationResponse is the category of a course inside a curriculum
type ClassificationResponse struct {
	Code         string          `json:"code" example:"ESZI013-17"`
	CurriculumID string          `json:"curriculumId" example:"eng-informacao"`
	Category     models.Category `json:"category" example:"limited"`
}

// ImportResponse summarizes a completed import
type ImportResponse struct {
	Imported int    `json:"imported" example:"42"`
	Format   string `json:"format" example:"transcript"`
}

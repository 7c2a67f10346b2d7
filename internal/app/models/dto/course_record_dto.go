package dto

import "github.com/yigit/gradplanner/internal/app/models"

// CreateCourseRecordRequest is the body of POST /records. Name and credits
// may be omitted for catalog courses.
type CreateCourseRecordRequest struct {
	Code     string  `json:"code" binding:"required,coursecode" example:"BCM0504-15"`
	Name     string  `json:"name" example:"Natureza da Informação"`
	Credits  int     `json:"credits" binding:"min=0" example:"3"`
	Year     int     `json:"year" binding:"required" example:"2024"`
	Term     int     `json:"term" binding:"required,oneof=1 2 3" example:"1"`
	Category string  `json:"category" binding:"required,oneof=required limited free" example:"required"`
	Status   string  `json:"status" binding:"required,oneof=completed planned" example:"completed"`
	Grade    *string `json:"grade,omitempty" example:"A"`
}

// ToDraft converts the request into a record draft
func (r CreateCourseRecordRequest) ToDraft() models.CourseRecordDraft {
	return models.CourseRecordDraft{
		Code:     r.Code,
		Name:     r.Name,
		Credits:  r.Credits,
		Year:     r.Year,
		Term:     models.Term(r.Term),
		Category: models.Category(r.Category),
		Status:   models.Status(r.Status),
		Grade:    r.Grade,
	}
}

// UpdateCourseRecordRequest is the body of PATCH /records/{id}. Omitted
// fields are left untouched; clearGrade removes the stored grade.
type UpdateCourseRecordRequest struct {
	Year       *int    `json:"year,omitempty" example:"2025"`
	Term       *int    `json:"term,omitempty" binding:"omitempty,oneof=1 2 3" example:"2"`
	Category   *string `json:"category,omitempty" binding:"omitempty,oneof=required limited free" example:"limited"`
	Status     *string `json:"status,omitempty" binding:"omitempty,oneof=completed planned" example:"planned"`
	Grade      *string `json:"grade,omitempty" example:"B"`
	ClearGrade bool    `json:"clearGrade,omitempty"`
}

// ToPatch converts the request into a record patch
func (r UpdateCourseRecordRequest) ToPatch() models.CourseRecordPatch {
	patch := models.CourseRecordPatch{
		Year:       r.Year,
		Grade:      r.Grade,
		ClearGrade: r.ClearGrade,
	}
	if r.Term != nil {
		term := models.Term(*r.Term)
		patch.Term = &term
	}
	if r.Category != nil {
		category := models.Category(*r.Category)
		patch.Category = &category
	}
	if r.Status != nil {
		status := models.Status(*r.Status)
		patch.Status = &status
	}
	return patch
}

// CreatedResponse carries the id of a newly created resource
type CreatedResponse struct {
	ID string `json:"id" example:"5f1c2a8e-3b7d-4c11-9e0a-2d6f4b8a9c01"`
}

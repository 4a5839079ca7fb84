package dtos

import "time"

// Request DTOs. Struct tags drive go-playground/validator; enum and
// bounding-box checks that need domain context live in the services.

type RegisterRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=50"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         string `json:"role" validate:"omitempty"`
	Organization string `json:"organization" validate:"omitempty,min=2,max=100"`
	Phone        string `json:"phone" validate:"omitempty,min=7,max=15"`
	State        string `json:"state" validate:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name         string `json:"name" validate:"omitempty,min=2,max=50"`
	Organization string `json:"organization" validate:"omitempty,max=100"`
	Phone        string `json:"phone" validate:"omitempty,min=7,max=15"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ApproveUserRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"omitempty,max=500"`
}

// UpdateUserRequest is the SuperAdmin-only user mutation. A role change
// recomputes the permission set server side.
type UpdateUserRequest struct {
	Role     string `json:"role" validate:"omitempty"`
	State    string `json:"state" validate:"omitempty"`
	IsActive *bool  `json:"isActive" validate:"omitempty"`
}

type UserListFilter struct {
	Role   string
	State  string
	Status string
	Page   int
	Limit  int
}

type TrainerInfo struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Qualification string `json:"qualification" validate:"omitempty,max=200"`
	Organization  string `json:"organization" validate:"omitempty,max=100"`
	Contact       string `json:"contact" validate:"omitempty,max=50"`
}

type LocationInfo struct {
	// GeoJSON coordinate order: longitude first.
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	Name        string    `json:"name" validate:"omitempty,max=200"`
	Address     string    `json:"address" validate:"required,min=5,max=200"`
	Pincode     string    `json:"pincode" validate:"omitempty,len=6,numeric"`
}

type ParticipantCounts struct {
	Planned int `json:"planned" validate:"required,min=1,max=10000"`
	Actual  int `json:"actual" validate:"omitempty,min=0,max=10000"`
	Male    int `json:"male" validate:"omitempty,min=0"`
	Female  int `json:"female" validate:"omitempty,min=0"`
}

type DurationInfo struct {
	Hours float64 `json:"hours" validate:"required,min=0.5,max=720"`
	Days  int     `json:"days" validate:"omitempty,min=1"`
}

type ResourceInfo struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
	Type string `json:"type" validate:"omitempty"`
}

type TrainingRequest struct {
	Title                string            `json:"title" validate:"required,min=3,max=200"`
	Description          string            `json:"description" validate:"required,min=10,max=1000"`
	Date                 time.Time         `json:"date" validate:"required"`
	EndDate              *time.Time        `json:"endDate"`
	Theme                string            `json:"theme" validate:"required"`
	State                string            `json:"state" validate:"required"`
	District             string            `json:"district" validate:"required"`
	Trainer              TrainerInfo       `json:"trainer" validate:"required"`
	Institution          string            `json:"institution" validate:"required"`
	Participants         ParticipantCounts `json:"participants" validate:"required"`
	Duration             DurationInfo      `json:"duration" validate:"required"`
	Location             LocationInfo      `json:"location" validate:"required"`
	TrainingType         string            `json:"trainingType" validate:"required"`
	TargetAudience       string            `json:"targetAudience" validate:"required"`
	Status               string            `json:"status" validate:"omitempty"`
	MaxParticipants      int               `json:"maxParticipants" validate:"omitempty,min=0"`
	RegistrationDeadline *time.Time        `json:"registrationDeadline"`
	IsPublic             *bool             `json:"isPublic"`
	Tags                 []string          `json:"tags"`
	Resources            []ResourceInfo    `json:"resources" validate:"omitempty,dive"`
}

type TrainingListFilter struct {
	Theme       string
	Institution string
	Status      string
	State       string
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	Limit       int
}

type AttendanceRequest struct {
	UserID  string `json:"userId" validate:"required,uuid"`
	CheckIn bool   `json:"checkIn"`
}

type ApproveTrainingRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"omitempty,max=500"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

type AnalyticsFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	State     string
	Theme     string
	Status    string
}

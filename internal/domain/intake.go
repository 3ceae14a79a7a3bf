package domain

import "time"

type IntakeSubmission struct {
	ID              uint
	OrderID         uint
	FullName        string
	Email           string
	Phone           string
	CurrentRole     string
	TargetRole      string
	Industry        string
	YearsExperience int
	LinkedInURL     string
	CareerGoals     string
	AdditionalInfo  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

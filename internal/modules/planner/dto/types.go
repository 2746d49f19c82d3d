package dto

import "time"

type LaunchOutput struct {
	Strategy string
}

type LoginOutput struct {
	Captcha string
}

type ClassRow struct {
	Number int
	Label  string
}

type OpenPlanningOutput struct {
	Classes []ClassRow
}

type PlanInput struct {
	// Start is the 1-based class number the run begins at.
	Start int
}

type ClassOutcome struct {
	Number       int
	Label        string
	LessonsSaved int
	OK           bool
	Note         string
}

type PlanOutput struct {
	RunID    string
	Outcomes []ClassOutcome
}

type HistoryInput struct {
	Limit int
}

type HistoryEntry struct {
	RunID        string
	Number       int
	Label        string
	State        string
	LessonsSaved int
	OK           bool
	Note         string
	StartedAt    time.Time
	FinishedAt   time.Time
}

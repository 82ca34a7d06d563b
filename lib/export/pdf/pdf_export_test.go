package pdfexport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"trip-approval-backend/models"
)

func testSheet() ApprovalSheet {
	decidedAt := time.Date(2026, 3, 11, 10, 15, 0, 0, time.UTC)
	return ApprovalSheet{
		TripID:         "t1",
		RequesterName:  "Петр Петров",
		Destination:    "Новосибирск",
		Purpose:        "Монтаж оборудования",
		DepartureDate:  time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		ReturnDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Cost:           decimal.RequireFromString("120.50"),
		Category:       models.TripTicketed,
		DepartmentName: "Отдел монтажа",
		ProjectName:    "Подстанция",
		Status:         models.StatusApproved,
		Steps: []SheetStep{
			{StepType: models.DepartmentApprovalStep, Status: models.StepApproved, DecidedBy: "Иван Иванов", DecidedAt: &decidedAt},
			{StepType: models.ProjectManagerApprovalStep, Status: models.StepApproved, DecidedBy: "Анна Смирнова", DecidedAt: &decidedAt, Comment: strings.Repeat("очень длинный комментарий ", 5)},
			{StepType: models.FinanceApprovalStep, Status: models.StepApproved, DecidedBy: "Ольга Кузнецова", DecidedAt: &decidedAt},
		},
		Budget: &SheetBudget{
			EffectiveBudget: decimal.NewFromInt(500),
			TotalSpent:      decimal.NewFromInt(0),
			AvailableBudget: decimal.NewFromInt(500),
		},
		GeneratedAt: decidedAt,
	}
}

func TestGenerateApprovalSheet(t *testing.T) {
	t.Run(`embedded fonts when font dir is not set`, func(t *testing.T) {
		file, err := NewInstance("").GenerateApprovalSheet(testSheet())
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(file, []byte("%PDF-")))
	})

	t.Run(`embedded fonts when font dir has no Arial`, func(t *testing.T) {
		file, err := NewInstance(t.TempDir()).GenerateApprovalSheet(testSheet())
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(file, []byte("%PDF-")))
	})

	t.Run(`sheet without budget and decisions`, func(t *testing.T) {
		sheet := testSheet()
		sheet.Budget = nil
		sheet.ProjectName = ""
		sheet.Steps = []SheetStep{{StepType: models.DepartmentApprovalStep, Status: models.StepPending}}
		file, err := NewInstance("").GenerateApprovalSheet(sheet)
		require.NoError(t, err)
		require.NotEmpty(t, file)
	})
}

func TestHumanOr(t *testing.T) {
	require.Equal(t, "Срочная", humanOr(categoryHuman, models.TripUrgent))
	require.Equal(t, "OTHER", humanOr(categoryHuman, models.TripCategory("OTHER")))
	require.Equal(t, "Отклонено", humanOr(stepStatusHuman, models.StepRejected))
}

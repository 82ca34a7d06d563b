package tripreqhandler

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"trip-approval-backend/lib/apperrors"
	pdfexport "trip-approval-backend/lib/export/pdf"
	"trip-approval-backend/models"
)

type stepAuditDetails struct {
	StepType models.StepType `json:"step_type"`
	Budget   *struct {
		EffectiveBudget decimal.Decimal `json:"effective_budget"`
		TotalSpent      decimal.Decimal `json:"total_spent"`
		AvailableBudget decimal.Decimal `json:"available_budget"`
	} `json:"budget"`
}

// ApprovalSheet лист согласования в PDF, только для согласованной заявки
func (i impl) ApprovalSheet(user models.CurrentUser, id string) ([]byte, error) {
	logger := i.getLogger(user).WithField("request_id", id)
	rec, err := i.get(user, id)
	if err != nil {
		return nil, err
	}
	if !rec.Status.IsAllocated() {
		return nil, apperrors.Conflict("лист согласования доступен только для согласованной заявки")
	}
	steps, err := i.stepStore.List(rec.ID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения этапов согласования")
	}
	sheet := pdfexport.ApprovalSheet{
		TripID:        rec.ID,
		RequesterName: i.userName(rec.RequesterID),
		Destination:   rec.Destination,
		Purpose:       rec.Purpose,
		DepartureDate: rec.DepartureDate,
		ReturnDate:    rec.ReturnDate,
		Cost:          rec.Cost,
		Category:      rec.Category,
		Status:        rec.Status,
		Steps:         make([]pdfexport.SheetStep, 0, len(steps)),
		GeneratedAt:   i.clock(),
	}
	if rec.HasDepartment() {
		department, err := i.deptStore.GetByID(*rec.DepartmentID)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка получения подразделения")
		}
		if department != nil {
			sheet.DepartmentName = department.Name
		}
	}
	if rec.HasProject() {
		project, err := i.projectStore.GetByID(*rec.ProjectID)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка получения проекта")
		}
		if project != nil {
			sheet.ProjectName = project.Name
		}
	}
	for _, step := range steps {
		row := pdfexport.SheetStep{
			StepType:  step.StepType,
			Status:    step.Status,
			DecidedAt: step.DecidedAt,
			Comment:   step.Comment,
		}
		if step.DecidedByID != nil {
			row.DecidedBy = i.userName(*step.DecidedByID)
		}
		sheet.Steps = append(sheet.Steps, row)
	}
	if rec.IsBudgetRelevant() {
		sheet.Budget, err = i.approvedBudget(rec.ID)
		if err != nil {
			return nil, err
		}
	}
	file, err := i.pdf.GenerateApprovalSheet(sheet)
	if err != nil {
		logger.WithError(err).Error("ошибка формирования листа согласования")
		return nil, errors.Wrap(err, "ошибка формирования листа согласования")
	}
	return file, nil
}

// approvedBudget результат проверки бюджета из записи аудита этапа руководителя проекта
func (i impl) approvedBudget(requestID string) (*pdfexport.SheetBudget, error) {
	entries, err := i.audit.ForRequest(requestID, models.AuditTripStepApproved)
	if err != nil {
		return nil, err
	}
	var result *pdfexport.SheetBudget
	for _, entry := range entries {
		details := stepAuditDetails{}
		if err = json.Unmarshal(entry.Details, &details); err != nil {
			log.
				WithField("audit_id", entry.ID).
				WithError(err).
				Warn("не удалось разобрать запись аудита")
			continue
		}
		if details.StepType != models.ProjectManagerApprovalStep || details.Budget == nil {
			continue
		}
		result = &pdfexport.SheetBudget{
			EffectiveBudget: details.Budget.EffectiveBudget,
			TotalSpent:      details.Budget.TotalSpent,
			AvailableBudget: details.Budget.AvailableBudget,
		}
	}
	return result, nil
}

func (i impl) userName(id string) string {
	rec, err := i.userStore.GetByID(id)
	if err != nil || rec == nil {
		return id
	}
	return rec.GetFullName()
}

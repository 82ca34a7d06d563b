package pdfexport

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"trip-approval-backend/models"
)

// ApprovalSheet данные листа согласования командировки
type ApprovalSheet struct {
	TripID         string
	RequesterName  string
	Destination    string
	Purpose        string
	DepartureDate  time.Time
	ReturnDate     time.Time
	Cost           decimal.Decimal
	Category       models.TripCategory
	DepartmentName string
	ProjectName    string
	Status         models.RequestStatus
	Steps          []SheetStep
	Budget         *SheetBudget
	GeneratedAt    time.Time
}

type SheetStep struct {
	StepType  models.StepType
	Status    models.StepStatus
	DecidedBy string
	DecidedAt *time.Time
	Comment   string
}

// SheetBudget остаток проекта на момент согласования руководителем проекта
type SheetBudget struct {
	EffectiveBudget decimal.Decimal
	TotalSpent      decimal.Decimal
	AvailableBudget decimal.Decimal
}

type Provider interface {
	GenerateApprovalSheet(sheet ApprovalSheet) (pdfFile []byte, err error)
}

var Instance Provider

func NewHandler(fontDir string) {
	Instance = NewInstance(fontDir)
}

// NewInstance fontDir с Arial.ttf и Arial Bold.ttf; если файлов нет, используются шрифты Go
func NewInstance(fontDir string) Provider {
	return impl{fontDir: fontDir}
}

type impl struct {
	fontDir string
}

const (
	fontFamily = "Arial"
	dateLayout = "02.01.2006"
	timeLayout = "02.01.2006 15:04"
)

var stepStatusHuman = map[models.StepStatus]string{
	models.StepPending:  "Ожидает",
	models.StepApproved: "Согласовано",
	models.StepRejected: "Отклонено",
}

var categoryHuman = map[models.TripCategory]string{
	models.TripRoutine:  "Плановая",
	models.TripTicketed: "С билетами",
	models.TripUrgent:   "Срочная",
}

func (i impl) GenerateApprovalSheet(sheet ApprovalSheet) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApprovalSheet panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", i.fontDir)
	i.addFonts(pdf)
	pdf.SetTitle("Лист согласования командировки", true)
	pdf.AddPage()
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 10, "Лист согласования командировки", "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(0, 5, "Заявка "+sheet.TripID, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", 11)
	writeField(pdf, "Сотрудник", sheet.RequesterName)
	writeField(pdf, "Место назначения", sheet.Destination)
	writeField(pdf, "Цель поездки", sheet.Purpose)
	writeField(pdf, "Даты", sheet.DepartureDate.Format(dateLayout)+" - "+sheet.ReturnDate.Format(dateLayout))
	writeField(pdf, "Стоимость", sheet.Cost.StringFixed(2))
	writeField(pdf, "Категория", humanOr(categoryHuman, sheet.Category))
	writeField(pdf, "Подразделение", sheet.DepartmentName)
	writeField(pdf, "Проект", sheet.ProjectName)
	writeField(pdf, "Статус", string(sheet.Status))
	pdf.Ln(4)

	writeSteps(pdf, sheet.Steps)

	if sheet.Budget != nil {
		pdf.Ln(4)
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(0, 7, "Бюджет проекта при согласовании", "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		writeField(pdf, "Бюджет", sheet.Budget.EffectiveBudget.StringFixed(2))
		writeField(pdf, "Израсходовано", sheet.Budget.TotalSpent.StringFixed(2))
		writeField(pdf, "Доступно", sheet.Budget.AvailableBudget.StringFixed(2))
	}

	pdf.Ln(6)
	pdf.SetFont(fontFamily, "", 8)
	pdf.CellFormat(0, 5, "Сформировано "+sheet.GeneratedAt.Format(timeLayout), "", 1, "R", false, 0, "")

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (i impl) addFonts(pdf *fpdf.Fpdf) {
	if i.fontDir != "" && fileExists(filepath.Join(i.fontDir, "Arial.ttf")) && fileExists(filepath.Join(i.fontDir, "Arial Bold.ttf")) {
		pdf.AddUTF8Font(fontFamily, "", "Arial.ttf")
		pdf.AddUTF8Font(fontFamily, "B", "Arial Bold.ttf")
		return
	}
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
}

func writeField(pdf *fpdf.Fpdf, title, value string) {
	if value == "" {
		value = "-"
	}
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(50, 7, title+":", "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(0, 7, value, "", "L", false)
}

var stepColumns = []struct {
	title string
	width float64
}{
	{"Этап", 55},
	{"Решение", 28},
	{"Согласующий", 42},
	{"Дата", 30},
	{"Комментарий", 35},
}

func writeSteps(pdf *fpdf.Fpdf, steps []SheetStep) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(217, 225, 242)
	for _, c := range stepColumns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(fontFamily, "", 9)
	for _, step := range steps {
		decidedAt := ""
		if step.DecidedAt != nil {
			decidedAt = step.DecidedAt.Format(timeLayout)
		}
		values := []string{
			step.StepType.ToHuman(),
			humanOr(stepStatusHuman, step.Status),
			step.DecidedBy,
			decidedAt,
			step.Comment,
		}
		for idx, c := range stepColumns {
			text := values[idx]
			// длинный текст обрезается по ширине колонки
			if lines := pdf.SplitText(text, c.width-2); len(lines) > 1 {
				text = lines[0] + "…"
			}
			pdf.CellFormat(c.width, 7, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func humanOr[K ~string](names map[K]string, key K) string {
	if name, exist := names[key]; exist {
		return name
	}
	return string(key)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	dbmodels "trip-approval-backend/models/db"
)

type Provider interface {
	ExportAuditLog(list []dbmodels.AuditLogEntry) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const auditSheet = "Журнал аудита"

var auditColumns = []column{
	{title: "Дата", width: 20},
	{title: "Пользователь", width: 38},
	{title: "Действие", width: 32},
	{title: "Подробности", width: 80},
}

func (i impl) ExportAuditLog(list []dbmodels.AuditLogEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	w, err := newSheetWriter(f, auditSheet)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания листа в xlsx")
	}
	if err = w.writeHeader(auditColumns); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	for _, item := range list {
		values := []interface{}{
			item.CreatedAt.Format("02.01.2006 15:04:05"),
			item.ActorID,
			string(item.Action),
		}
		if len(item.Details) != 0 {
			values = append(values, string(item.Details))
		}
		if err = w.writeRow(values...); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	if err = w.applyDataStyle(len(auditColumns)); err != nil {
		return nil, errors.Wrap(err, "ошибка оформления таблицы в xlsx")
	}
	return f.WriteToBuffer()
}

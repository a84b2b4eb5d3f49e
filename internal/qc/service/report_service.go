package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	controlPlanSheet = "Kontrol Planı"

	temsaBlue  = "0066B3"
	lightGray  = "F2F2F2"
	mediumGray = "D9D9D9"
	acceptFill = "C6EFCE"
	rejectFill = "FFC7CE"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var filenameSafe = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// ReportService renders the per-process control-plan spreadsheet. When a
// MinIO client is configured every export is also archived to the bucket.
type ReportService struct {
	boxRepo *repository.BatteryBoxRepository
	store   *minio.Client
	bucket  string
	logger  *zap.Logger
}

func NewReportService(boxRepo *repository.BatteryBoxRepository, store *minio.Client, bucket string, logger *zap.Logger) *ReportService {
	return &ReportService{
		boxRepo: boxRepo,
		store:   store,
		bucket:  bucket,
		logger:  logger,
	}
}

// ExportControlPlan builds the control plan workbook for one process instance
// and returns it with the download filename.
func (s *ReportService) ExportControlPlan(ctx context.Context, boxID, processID string) (*excelize.File, string, error) {
	instance, err := s.boxRepo.FindProcess(ctx, boxID, processID)
	if err != nil {
		return nil, "", err
	}

	f, err := s.renderControlPlan(instance)
	if err != nil {
		return nil, "", err
	}

	safeSerial := filenameSafe.ReplaceAllString(instance.BatteryBox.SerialNumber, "_")
	safeProcess := filenameSafe.ReplaceAllString(instance.Process.Name, "_")
	filename := fmt.Sprintf("TEMSA_%s_%s_Kontrol_Plani.xlsx", safeSerial, safeProcess)

	s.archive(ctx, instance, f)

	return f, filename, nil
}

// archive uploads a copy of the workbook. Failures are logged, not returned:
// the operator's download must not depend on object storage being up.
func (s *ReportService) archive(ctx context.Context, instance *entity.BatteryBoxProcess, f *excelize.File) {
	if s.store == nil || s.bucket == "" {
		return
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Warn("serialize control plan for archive", zap.Error(err))
		return
	}

	key := fmt.Sprintf("reports/%s/%s/%s.xlsx",
		instance.BatteryBox.SerialNumber,
		instance.Process.Name,
		time.Now().Format("20060102T150405"))

	_, err = s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: xlsxContentType})
	if err != nil {
		s.logger.Warn("archive control plan",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err))
		return
	}
	s.logger.Info("control plan archived", zap.String("key", key))
}

func (s *ReportService) renderControlPlan(instance *entity.BatteryBoxProcess) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", controlPlanSheet); err != nil {
		return nil, err
	}
	sheet := controlPlanSheet

	widths := []float64{5, 18, 45, 40, 18, 15, 12, 25}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	thinBorder := []excelize.Border{
		{Type: "top", Color: "000000", Style: 1},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	logoStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 24, Color: temsaBlue},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18, Color: temsaBlue},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	dateStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})

	// Title block.
	f.MergeCell(sheet, "A1", "B3")
	f.SetCellValue(sheet, "A1", "TEMSA")
	f.SetCellStyle(sheet, "A1", "A1", logoStyle)

	f.MergeCell(sheet, "C1", "F3")
	f.SetCellValue(sheet, "C1", "BATARYA KUTUSU KONTROL PLANI")
	f.SetCellStyle(sheet, "C1", "C1", titleStyle)

	f.MergeCell(sheet, "G1", "H1")
	f.SetCellValue(sheet, "G1", "Date / Tarih: "+time.Now().Format("02.01.2006"))
	f.SetCellStyle(sheet, "G1", "H1", dateStyle)
	f.MergeCell(sheet, "G2", "H2")
	f.SetCellValue(sheet, "G2", "Page / Sayfa: 1")
	f.SetCellStyle(sheet, "G2", "H2", dateStyle)
	f.MergeCell(sheet, "G3", "H3")

	// Info row.
	infoLabelStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 9, Color: temsaBlue},
		Border: thinBorder,
	})
	infoValueStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 9},
		Border: thinBorder,
	})

	f.SetCellValue(sheet, "A4", "PARÇA NO:")
	f.SetCellValue(sheet, "B4", instance.BatteryBox.SerialNumber)
	f.SetCellValue(sheet, "C4", "PROJE ADI:")
	f.SetCellValue(sheet, "D4", instance.Process.Name)
	f.SetCellValue(sheet, "E4", "DURUM:")
	f.SetCellValue(sheet, "F4", statusLabelTR(instance.Status))
	for col := 1; col <= 8; col++ {
		cell, _ := excelize.CoordinatesToCellName(col, 4)
		if col%2 == 1 {
			f.SetCellStyle(sheet, cell, cell, infoLabelStyle)
		} else {
			f.SetCellStyle(sheet, cell, cell, infoValueStyle)
		}
	}

	// Table header.
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10, Color: temsaBlue},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{mediumGray}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder,
	})
	headers := []string{"NO", "KONTROL", "KONTROL AÇIKLAMASI", "KABUL KRİTERİ", "EKİPMAN", "FREKANS", "SONUÇ", "AÇIKLAMA"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetRowHeight(sheet, 5, 25)

	rowIndex := s.renderQuestionRows(f, sheet, instance, thinBorder)
	s.renderSignatureRows(f, sheet, rowIndex+1, thinBorder)

	orientation := "landscape"
	fitToWidth := 1
	fitToHeight := 0
	f.SetPageLayout(sheet, &excelize.PageLayoutOptions{
		Orientation: &orientation,
		FitToWidth:  &fitToWidth,
		FitToHeight: &fitToHeight,
	})
	left, right := 0.25, 0.25
	top, bottom := 0.5, 0.5
	header, footer := 0.3, 0.3
	f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Left: &left, Right: &right, Top: &top, Bottom: &bottom,
		Header: &header, Footer: &footer,
	})

	return f, nil
}

// renderQuestionRows writes one row per template question starting at row 6
// and returns the last row written.
func (s *ReportService) renderQuestionRows(f *excelize.File, sheet string, instance *entity.BatteryBoxProcess, border []excelize.Border) int {
	var questions []entity.ChecklistQuestion
	if instance.ChecklistTemplate != nil {
		questions = instance.ChecklistTemplate.Questions
	}

	answersByQuestion := make(map[string]*entity.ChecklistAnswer, len(instance.Answers))
	for i := range instance.Answers {
		answersByQuestion[instance.Answers[i].QuestionID] = &instance.Answers[i]
	}

	baseStyle := func(fill string, extra excelize.Style) int {
		style := extra
		style.Border = border
		if fill != "" {
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
		}
		id, _ := f.NewStyle(&style)
		return id
	}
	centerAlign := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	wrapAlign := &excelize.Alignment{Vertical: "center", WrapText: true}

	rowIndex := 5
	for i, question := range questions {
		rowIndex = 6 + i
		fill := ""
		if i%2 == 1 {
			fill = lightGray
		}

		category, _ := ClassifyCategory(question.QuestionText)

		qText := turkishLower.String(question.QuestionText)
		acceptance := "Spesifikasyona uygun olmalı"
		if strings.Contains(qText, "mı") || strings.Contains(qText, "mu") {
			acceptance = "Evet/Hayır onayı gerekli"
		}

		setCell := func(col int, value interface{}, styleID int) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIndex)
			f.SetCellValue(sheet, cell, value)
			f.SetCellStyle(sheet, cell, cell, styleID)
		}

		setCell(1, i+1, baseStyle(fill, excelize.Style{Alignment: centerAlign}))
		setCell(2, category, baseStyle(fill, excelize.Style{
			Font:      &excelize.Font{Size: 9, Color: temsaBlue},
			Alignment: wrapAlign,
		}))
		setCell(3, question.QuestionText, baseStyle(fill, excelize.Style{
			Font:      &excelize.Font{Size: 9},
			Alignment: wrapAlign,
		}))
		setCell(4, acceptance, baseStyle(fill, excelize.Style{
			Font:      &excelize.Font{Size: 9},
			Alignment: wrapAlign,
		}))
		setCell(5, "GÖZ", baseStyle(fill, excelize.Style{
			Font:      &excelize.Font{Size: 9},
			Alignment: centerAlign,
		}))
		setCell(6, "HER SEVKİYATTA\nTÜM MALZEMELER", baseStyle(fill, excelize.Style{
			Font:      &excelize.Font{Size: 8},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		}))

		// SONUÇ keeps its own fill, never the alternating gray.
		answer := answersByQuestion[question.ID]
		switch {
		case answer == nil:
			setCell(7, "-", baseStyle("", excelize.Style{
				Font:      &excelize.Font{Size: 10},
				Alignment: centerAlign,
			}))
		default:
			lowered := strings.ToLower(answer.Answer)
			if lowered == "yes" || lowered == "evet" {
				setCell(7, "KABUL", baseStyle(acceptFill, excelize.Style{
					Font:      &excelize.Font{Bold: true, Size: 10, Color: "008000"},
					Alignment: centerAlign,
				}))
			} else {
				setCell(7, "RED", baseStyle(rejectFill, excelize.Style{
					Font:      &excelize.Font{Bold: true, Size: 10, Color: "FF0000"},
					Alignment: centerAlign,
				}))
			}
		}

		note := ""
		if answer != nil && answer.AnsweredBy != nil {
			note = answer.AnsweredBy.Name + " - " + answer.AnsweredAt.Format("02.01.2006")
		}
		setCell(8, note, baseStyle(fill, excelize.Style{
			Font:      &excelize.Font{Size: 8},
			Alignment: wrapAlign,
		}))

		f.SetRowHeight(sheet, rowIndex, 30)
	}

	return rowIndex
}

func (s *ReportService) renderSignatureRows(f *excelize.File, sheet string, startRow int, border []excelize.Border) {
	labelStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{mediumGray}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	roleStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	signStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:    border,
	})

	rows := []struct{ label, role string }{
		{"HAZIRLAYAN", "TEKNİSYEN"},
		{"KONTROL EDEN", "POSTABAŞI"},
		{"ONAY VEREN", "MÜHENDİS"},
	}
	for i, row := range rows {
		// Leave one empty spacer row before the first signature row.
		r := startRow + 1 + i

		f.MergeCell(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r))
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.label)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r), labelStyle)

		f.MergeCell(sheet, fmt.Sprintf("C%d", r), fmt.Sprintf("E%d", r))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.role)
		f.SetCellStyle(sheet, fmt.Sprintf("C%d", r), fmt.Sprintf("E%d", r), roleStyle)

		f.MergeCell(sheet, fmt.Sprintf("F%d", r), fmt.Sprintf("H%d", r))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), "İMZA:")
		f.SetCellStyle(sheet, fmt.Sprintf("F%d", r), fmt.Sprintf("H%d", r), signStyle)
	}
}

func statusLabelTR(status string) string {
	switch status {
	case entity.ProcessStatusCompleted:
		return "TAMAMLANDI"
	case entity.ProcessStatusInProgress:
		return "DEVAM EDİYOR"
	default:
		return "BEKLEMEDE"
	}
}

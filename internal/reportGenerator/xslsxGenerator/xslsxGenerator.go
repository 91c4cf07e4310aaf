package xslsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	holdingsSheet   = "Портфель"
	referencesSheet = "Справочник"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, snapshot model.Snapshot) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	if len(snapshot.Holdings) == 0 && len(snapshot.ReferenceEntries) == 0 {
		return nil, "", errors.New("empty snapshot")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillHoldings(f, snapshot); err != nil {
		slog.Error("got error while filling holdings sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := g.fillReferences(f, snapshot.ReferenceEntries); err != nil {
		slog.Error("got error while filling references sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	// Удаляем лист по умолчанию "Sheet1"
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) fillHoldings(f *excelize.File, snapshot model.Snapshot) error {
	if _, err := f.NewSheet(holdingsSheet); err != nil {
		return err
	}

	err := g.header(f, holdingsSheet, "A1", "H1", fmt.Sprintf("Портфель (курс USD %s)", snapshot.UsdRate.StringFixed(2)), "#cfe2f3")
	if err != nil {
		return err
	}

	_ = f.SetCellStr(holdingsSheet, "A2", "тикер")
	_ = f.SetCellStr(holdingsSheet, "B2", "название")
	_ = f.SetCellStr(holdingsSheet, "C2", "кол-во")
	_ = f.SetCellStr(holdingsSheet, "D2", "средняя цена")
	_ = f.SetCellStr(holdingsSheet, "E2", "текущая цена")
	_ = f.SetCellStr(holdingsSheet, "F2", "сумма")
	_ = f.SetCellStr(holdingsSheet, "G2", "за день")
	_ = f.SetCellStr(holdingsSheet, "H2", "валюта")

	for i, h := range snapshot.Holdings {
		row := i + 3
		_ = f.SetCellStr(holdingsSheet, fmt.Sprintf("A%d", row), h.Ticker)
		_ = f.SetCellStr(holdingsSheet, fmt.Sprintf("B%d", row), h.Name)
		_ = f.SetCellInt(holdingsSheet, fmt.Sprintf("C%d", row), h.Quantity)
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("D%d", row), h.AvgPrice.InexactFloat64())
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("E%d", row), h.CurrentPrice.InexactFloat64())
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("F%d", row), h.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity)).InexactFloat64())
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("G%d", row), h.DailyProfit.InexactFloat64())
		_ = f.SetCellStr(holdingsSheet, fmt.Sprintf("H%d", row), h.Currency)
	}

	return nil
}

func (g *XSLSXGenerator) fillReferences(f *excelize.File, entries []model.ReferenceEntry) error {
	if _, err := f.NewSheet(referencesSheet); err != nil {
		return err
	}

	if err := g.header(f, referencesSheet, "A1", "E1", "Справочник", "#d9ead3"); err != nil {
		return err
	}

	_ = f.SetCellStr(referencesSheet, "A2", "тикер")
	_ = f.SetCellStr(referencesSheet, "B2", "название")
	_ = f.SetCellStr(referencesSheet, "C2", "uid")
	_ = f.SetCellStr(referencesSheet, "D2", "цена")
	_ = f.SetCellStr(referencesSheet, "E2", "за день")

	for i, e := range entries {
		row := i + 3
		_ = f.SetCellStr(referencesSheet, fmt.Sprintf("A%d", row), e.Ticker)
		_ = f.SetCellStr(referencesSheet, fmt.Sprintf("B%d", row), e.Name)
		_ = f.SetCellStr(referencesSheet, fmt.Sprintf("C%d", row), e.UID)
		// пустая ячейка, если цена ещё не подтянулась
		if e.CurrentPrice.Valid {
			_ = f.SetCellValue(referencesSheet, fmt.Sprintf("D%d", row), e.CurrentPrice.Decimal.InexactFloat64())
		}
		if e.DailyProfit.Valid {
			_ = f.SetCellValue(referencesSheet, fmt.Sprintf("E%d", row), e.DailyProfit.Decimal.InexactFloat64())
		}
	}

	return nil
}

func (g *XSLSXGenerator) header(f *excelize.File, sheet, from, to, title, color string) error {
	if err := f.MergeCell(sheet, from, to); err != nil {
		return err
	}

	_ = f.SetCellValue(sheet, from, title)

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, from, from, styleID); err != nil {
		return fmt.Errorf("ошибка применения стиля: %w", err)
	}

	return nil
}

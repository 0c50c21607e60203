package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"

	"medirural/internal/domain"
	"medirural/internal/repository"
)

const expiryLayout = "2006-01-02"

var importColumns = []string{"name", "description", "price", "stock", "category", "manufacturer", "expiryDate", "imageUrl"}

type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ImportXLSX читает первый лист; строки с тем же именем обновляют существующее лекарство
func (s *MedicineService) ImportXLSX(ctx context.Context, actor domain.Actor, data []byte) (*ImportResult, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fieldError("file", "not a valid xlsx file")
	}
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return nil, fieldError("file", "spreadsheet is empty or missing header row")
	}

	res := &ImportResult{}
	sheet := file.Sheets[0]
	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if row == nil {
			res.Skipped++
			continue
		}
		in, ok := parseMedicineRow(row)
		if !ok || in.validate() != nil {
			res.Skipped++
			continue
		}

		existing, err := s.repo.FindByName(ctx, in.Name)
		switch {
		case err == nil:
			in.apply(existing)
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, err
			}
			res.Updated++
		case errors.Is(err, repository.ErrNotFound):
			m := domain.Medicine{ID: uuid.NewString()}
			in.apply(&m)
			if err := s.repo.Create(ctx, &m); err != nil {
				return nil, err
			}
			res.Created++
		default:
			return nil, err
		}
	}
	s.logger.WithFields(logrus.Fields{
		"created": res.Created,
		"updated": res.Updated,
		"skipped": res.Skipped,
	}).Info("Medicine import completed")
	return res, nil
}

func parseMedicineRow(row *xlsx.Row) (MedicineInput, bool) {
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}
	in := MedicineInput{
		Name:         get(0),
		Description:  get(1),
		Category:     get(4),
		Manufacturer: get(5),
		ImageURL:     get(7),
	}
	if in.Name == "" {
		return in, false
	}
	price, err := strconv.ParseFloat(get(2), 64)
	if err != nil {
		return in, false
	}
	in.Price = price
	if v := get(3); v != "" {
		stock, err := strconv.ParseFloat(v, 64)
		if err != nil || stock != float64(int64(stock)) {
			return in, false
		}
		in.Stock = int64(stock)
	}
	if v := get(6); v != "" {
		exp, err := time.Parse(expiryLayout, v)
		if err != nil {
			return in, false
		}
		in.ExpiryDate = exp
	}
	return in, true
}

// ExportXLSX пишет каталог теми же колонками, что читает импорт, плюс id
func (s *MedicineService) ExportXLSX(ctx context.Context, actor domain.Actor, w io.Writer) error {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	list, err := s.repo.List(ctx, repository.MedicineFilter{})
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Medicines")
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	for _, h := range append(append([]string{}, importColumns...), "id") {
		header.AddCell().SetValue(h)
	}
	for _, m := range list {
		row := sheet.AddRow()
		row.AddCell().SetValue(m.Name)
		row.AddCell().SetValue(m.Description)
		row.AddCell().SetValue(m.Price)
		row.AddCell().SetValue(m.Stock)
		row.AddCell().SetValue(m.Category)
		row.AddCell().SetValue(m.Manufacturer)
		expiry := ""
		if !m.ExpiryDate.IsZero() {
			expiry = m.ExpiryDate.Format(expiryLayout)
		}
		row.AddCell().SetValue(expiry)
		row.AddCell().SetValue(m.ImageURL)
		row.AddCell().SetValue(m.ID)
	}
	return file.Write(w)
}

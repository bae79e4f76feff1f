package xlsxledger

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Record is one transactions-sheet row in default column order. Cells are
// written as given.
type Record []interface{}

// CarryoverRecord is one carryover-sheet row.
type CarryoverRecord struct {
	OrganizationID string
	FinancialYear  int
	Amount         float64
}

// WriteTemplate writes a workbook with the header rows of both sheets and
// the given data.
func WriteTemplate(path string, records []Record, carryovers []CarryoverRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TransactionsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeRows(f, TransactionsSheet, toRow(Headers), records); err != nil {
		return err
	}

	if _, err := f.NewSheet(CarryoverSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	carry := make([]Record, len(carryovers))
	for i, c := range carryovers {
		carry[i] = Record{c.OrganizationID, c.FinancialYear, c.Amount}
	}
	if err := writeRows(f, CarryoverSheet, toRow(CarryoverHeaders), carry); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save ledger file: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header Record, records []Record) error {
	rows := append([]Record{header}, records...)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := []interface{}(r)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(values []string) Record {
	r := make(Record, len(values))
	for i, v := range values {
		r[i] = v
	}
	return r
}

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"retail-nso/admin-portal/admin-portal-backend/internal/outlets"
)

const sheetName = "Outlet Register"

var registerColumns = []string{
	"Outlet ID", "Name", "Status", "City", "Address", "Area Manager",
	"Rent Model", "Fixed Rent", "Rev Share %", "Security Deposit",
	"Progress %", "Days Pending", "Urgency", "Approved On", "Rejection Reason",
}

// WriteOutletRegister writes the outlet register as an Excel workbook: a
// styled, frozen header row, one row per outlet and an auto-filter over the
// whole table.
func WriteOutletRegister(w io.Writer, views []outlets.OutletView) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"063312"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, col := range registerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(registerColumns), 1)
	if err := f.SetCellStyle(sheetName, "A1", endHeader, headerStyle); err != nil {
		return err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	for i, v := range views {
		row := i + 2
		values := []any{
			v.OutletID, v.OutletName, v.OutletStatus, v.City, v.Address,
			v.AreaManager, v.RentModel, v.FixedRentAmount, v.RevSharePercent,
			v.SDAmount, v.OverallProgress, v.DaysPendingForLOIApproval,
			v.Urgency.Label, v.ApprovedDate, v.RejectionReason,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if len(views) > 0 {
		endCell, _ := excelize.CoordinatesToCellName(len(registerColumns), len(views)+1)
		if err := f.AutoFilter(sheetName, "A1:"+endCell, nil); err != nil {
			return err
		}
	}

	return f.Write(w)
}

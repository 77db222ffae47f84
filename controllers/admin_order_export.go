package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
)

var orderExportHeaders = []string{
	"Order Number", "User ID", "Email", "Date", "Items", "Subtotal", "Fee", "Total",
	"Status", "Transaction Status", "Transaction Hash", "Failure Reason",
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boldStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	return style
}

// BuildOrderExport writes orders and a summary block into a workbook
func BuildOrderExport(orders []models.Order, filter string) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	sheet.AddRow().AddCell().SetString(utils.AppName + " - Order Export")
	sheet.AddRow().AddCell().SetString("Generated: " + time.Now().UTC().Format(time.RFC3339))
	if filter != "" {
		sheet.AddRow().AddCell().SetString("Filter: " + filter)
	}
	sheet.AddRow()

	bold := boldStyle()
	headerRow := sheet.AddRow()
	for _, h := range orderExportHeaders {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	revenue := decimal.Zero
	fees := decimal.Zero
	byStatus := map[string]int{}
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(order.OrderNumber)
		row.AddCell().SetInt(int(order.UserID))
		row.AddCell().SetString(order.User.Email)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetInt(len(order.OrderItems))
		row.AddCell().SetString(order.Subtotal.String())
		row.AddCell().SetString(order.Fee.String())
		row.AddCell().SetString(order.TotalAmount.String())
		row.AddCell().SetString(order.Status)
		row.AddCell().SetString(deref(order.TransactionStatus))
		row.AddCell().SetString(deref(order.TransactionHash))
		row.AddCell().SetString(deref(order.FailureReason))

		byStatus[order.Status]++
		if order.Status == models.OrderStatusCompleted {
			revenue = revenue.Add(order.TotalAmount)
			fees = fees.Add(order.Fee)
		}
	}

	sheet.AddRow()
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	summaryRow.Cells[0].SetStyle(bold)

	summaryData := [][]string{
		{"Orders", fmt.Sprintf("%d", len(orders))},
		{"Completed", fmt.Sprintf("%d", byStatus[models.OrderStatusCompleted])},
		{"Pending", fmt.Sprintf("%d", byStatus[models.OrderStatusPending])},
		{"Processing", fmt.Sprintf("%d", byStatus[models.OrderStatusProcessing])},
		{"Failed", fmt.Sprintf("%d", byStatus[models.OrderStatusFailed])},
		{"Cancelled", fmt.Sprintf("%d", byStatus[models.OrderStatusCancelled])},
		{"Completed Revenue", revenue.String()},
		{"Completed Fees", fees.String()},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}
	return file, nil
}

// ExportOrders downloads all orders matching status and date range as Excel
func ExportOrders(c *gin.Context) {
	utils.LogInfo("ExportOrders called")
	if !ordersEnabled(c) {
		return
	}

	filter, problems := ParseOrderFilter(c)
	if len(problems) > 0 {
		utils.BadRequest(c, "Invalid query parameters", problems)
		return
	}

	orders, err := deps.Orders.Export(c.Request.Context(), filter)
	if err != nil {
		respondOrderError(c, err, "Failed to fetch orders")
		return
	}
	utils.LogDebug("Retrieved %d orders for export", len(orders))

	file, err := BuildOrderExport(orders, c.Request.URL.RawQuery)
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders_%s.xlsx", time.Now().Format("20060102")))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		return
	}
	utils.LogInfo("Exported %d orders", len(orders))
}

package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const invoiceAmountPlaces = 6

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(invoiceAmountPlaces) + " ETH"
}

func shortHash(s string) string {
	if len(s) <= 22 {
		return s
	}
	return s[:12] + "..." + s[len(s)-8:]
}

// RenderInvoice lays out the order as an A4 PDF
func RenderInvoice(order *models.Order, buyer models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "NFT Marketplace")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(80, 8, "Order: "+order.OrderNumber)
	pdf.Cell(80, 8, "Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(80, 8, "Status: "+order.Status)
	if order.TransactionStatus != nil {
		pdf.Cell(80, 8, "Transaction: "+*order.TransactionStatus)
	}
	pdf.Ln(8)
	if order.TransactionHash != nil {
		pdf.Cell(160, 8, "Tx hash: "+shortHash(*order.TransactionHash))
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, buyer.Email)
	pdf.Ln(6)
	if buyer.WalletAddress != nil {
		pdf.Cell(100, 8, "Wallet: "+*buyer.WalletAddress)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 8, "NFT", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.OrderItems {
		name := item.NFT.Name
		if name == "" {
			name = fmt.Sprintf("NFT #%d", item.NFTID)
		}
		pdf.CellFormat(70, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 8, formatAmount(item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, formatAmount(item.LineTotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	summary := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal:", order.Subtotal},
		{"Platform fee:", order.Fee},
		{"Total:", order.TotalAmount},
	}
	for _, row := range summary {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(135, 8, row.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(45, 8, formatAmount(row.value), "", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for trading on "+utils.AppName+"!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DownloadInvoice returns a PDF invoice for one of the user's orders
func DownloadInvoice(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok || !ordersEnabled(c) {
		return
	}

	orderID, ok := parseID(c, "id")
	if !ok {
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	order, err := deps.Orders.Get(c.Request.Context(), user.ID, orderID)
	if err != nil {
		respondOrderError(c, err, "Failed to fetch order")
		return
	}

	data, err := RenderInvoice(order, user)
	if err != nil {
		utils.LogError("Failed to render invoice for order %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}
	utils.LogInfo("Invoice generated for order %s", order.OrderNumber)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}

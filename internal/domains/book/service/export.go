package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/shared/utils"
)

const exportSheetName = "Book list"

// ExportBooksToExcel export một trang kết quả của ListBooks ra file xlsx
// page_size bị giới hạn bởi max page size giống ListBooks
func (s *BookService) ExportBooksToExcel(ctx context.Context, f model.Filter) (*excelize.File, error) {
	if f.PageSize == nil {
		f.PageSize = utils.Ptr(s.engine.paging.MaxPageSize)
	}

	page, err := s.ListBooks(ctx, f)
	if err != nil {
		return nil, err
	}

	file, err := buildBooksExcelFile(page.Books)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return file, nil
}

func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	headers := []string{
		"ID", "Title", "Author", "ISBN", "Genre", "Publisher", "Language", "Format",
		"Year Published", "Published Date", "Price", "On Sale", "Discount Price",
		"Discount End Date", "Stock", "Available", "Sales Count", "Added Date",
	}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	// Header in đậm
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", lastCell, headerStyle)
	}

	for i, b := range books {
		row := []interface{}{
			b.ID.String(),
			b.Title,
			b.Author,
			b.ISBN,
			b.Genre,
			b.Publisher,
			b.Language,
			b.Format,
			b.YearPublished,
			b.PublishedDate.Format("2006-01-02"),
			b.Price.InexactFloat64(),
			b.OnSale,
			nil,
			nil,
			b.StockQuantity,
			b.IsAvailable,
			b.SalesCount,
			b.AddedDate.Format("2006-01-02 15:04:05"),
		}
		if b.DiscountPrice != nil {
			row[12] = b.DiscountPrice.InexactFloat64()
		}
		if b.DiscountEndDate != nil {
			row[13] = b.DiscountEndDate.Format("2006-01-02 15:04:05")
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

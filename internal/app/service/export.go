package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const WishSheetName = "Wishes"

var wishSheetHeader = []interface{}{"ID", "Name", "Price", "Article", "URL", "Image", "Added by", "Created at"}

// ExportCoupleWishes renders the couple's wishlist as an xlsx workbook.
func (s *wishService) ExportCoupleWishes(ctx context.Context, coupleID uint) (*bytes.Buffer, error) {
	wishes, err := s.ListCoupleWishes(ctx, coupleID)
	if err != nil {
		return nil, err
	}

	buf, err := renderWishSheet(wishes)
	if err != nil {
		logger.Error("Failed to render wishlist workbook", err, map[string]interface{}{
			"couple_id": coupleID,
		})
		return nil, err
	}

	logger.Info("Wishlist exported", map[string]interface{}{
		"couple_id": coupleID,
		"rows":      len(wishes),
	})
	return buf, nil
}

func renderWishSheet(wishes []model.Wish) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", WishSheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(WishSheetName, "A1", &wishSheetHeader); err != nil {
		return nil, err
	}

	for i, w := range wishes {
		article := ""
		if w.Article != nil {
			article = fmt.Sprintf("%d", *w.Article)
		}
		addedBy := ""
		if w.UserAddedID != nil {
			addedBy = fmt.Sprintf("%d", *w.UserAddedID)
		}
		row := []interface{}{w.ID, w.Name, w.Price, article, w.URL, w.Image, addedBy, w.CreatedAt.Format("2006-01-02 15:04")}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(WishSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(WishSheetName, "B", "B", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(WishSheetName, "E", "F", 50); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

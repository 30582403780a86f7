// Package report builds spreadsheet exports for the admin back office.
package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/tealeg/xlsx"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04:05"
)

func addRow(sheet *xlsx.Sheet, values ...any) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetValue(v)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Orders writes one sheet of orders and one of their line items.
func Orders(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}
	items, err := file.AddSheet("Items")
	if err != nil {
		return nil, err
	}

	addRow(sheet, "ID", "Reference", "Status", "Total", "Name", "Phone", "City", "Address",
		"Email", "Notes", "Account", "Items", "CreatedAt", "UpdatedAt")
	addRow(items, "OrderReference", "ProductID", "Name", "Size", "Quantity", "Price", "Total")

	for _, o := range orders {
		account := "guest"
		if o.UserID != nil {
			account = o.UserID.String()
		}
		total, _ := o.Total.Float64()
		addRow(sheet,
			o.ID.String(), o.Reference, string(o.Status), total,
			o.ShippingName, o.ShippingPhone, o.ShippingCity, o.ShippingAddress,
			deref(o.Email), deref(o.ShippingNotes), account, len(o.Items),
			o.CreatedAt.UTC().Format(timeLayout), o.UpdatedAt.UTC().Format(timeLayout),
		)
		for _, it := range o.Items {
			price, _ := it.Price.Float64()
			line, _ := it.Total.Float64()
			addRow(items, o.Reference, it.ProductID, it.Name, it.Size, it.Quantity, price, line)
		}
	}
	return file, nil
}

// Products writes the catalog with one column per size price.
func Products(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	header := []any{"ID", "Name", "NameEn", "Category", "Price"}
	for _, k := range models.SizeKeys {
		header = append(header, strings.ToUpper(k[:1])+k[1:])
	}
	header = append(header, "Featured", "InStock", "DisplayOrder", "Image", "CreatedAt")
	addRow(sheet, header...)

	sorted := make([]models.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DisplayOrder < sorted[j].DisplayOrder })

	for _, p := range sorted {
		price, _ := p.Price.Float64()
		row := []any{p.ID, p.Name, deref(p.NameEn), p.Category, price}
		sizes := p.SizeOptions()
		for _, k := range models.SizeKeys {
			opt, ok := sizes[k]
			if !ok {
				row = append(row, "")
				continue
			}
			sp, _ := opt.Price.Float64()
			label := opt.Weight
			if label != "" {
				label += " / "
			}
			row = append(row, label+formatPrice(sp))
		}
		row = append(row, p.Featured, p.InStock, p.DisplayOrder, deref(p.Image), p.CreatedAt.UTC().Format(timeLayout))
		addRow(sheet, row...)
	}
	return file, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

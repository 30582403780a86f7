package service

import (
	"strings"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"github.com/shopspring/decimal"
)

// PriceTolerance is the largest accepted difference between a client
// price and the server price.
var PriceTolerance = decimal.New(1, -2)

// NormalizeSizes keeps the known size keys with a positive price and a
// trimmed weight. When nothing survives and fallback is positive, a single
// medium size at fallback is returned.
func NormalizeSizes(in models.SizeMap, fallback decimal.Decimal) models.SizeMap {
	out := models.SizeMap{}
	for k, opt := range in {
		key := strings.ToLower(strings.TrimSpace(k))
		if !knownSize(key) || !opt.Price.IsPositive() {
			continue
		}
		out[key] = models.SizeOption{
			Weight: strings.TrimSpace(opt.Weight),
			Price:  opt.Price.Round(2),
		}
	}
	if len(out) == 0 && fallback.IsPositive() {
		out[models.SizeMedium] = models.SizeOption{Weight: "", Price: fallback.Round(2)}
	}
	return out
}

// ListPrice is the catalog display price: the cheapest positive size
// price, or base when no size has one.
func ListPrice(sizes models.SizeMap, base decimal.Decimal) decimal.Decimal {
	var (
		minPrice decimal.Decimal
		found    bool
	)
	for _, opt := range sizes {
		if !opt.Price.IsPositive() {
			continue
		}
		if !found || opt.Price.LessThan(minPrice) {
			minPrice = opt.Price
			found = true
		}
	}
	if found {
		return minPrice
	}
	return base
}

// AuthoritativePrice resolves the price charged for one unit of p in size.
// A size missing from the map falls back to the base price.
func AuthoritativePrice(p *models.Product, size string) decimal.Decimal {
	key := strings.ToLower(strings.TrimSpace(size))
	if opt, ok := p.SizeOptions()[key]; ok && opt.Price.IsPositive() {
		return opt.Price
	}
	return p.Price
}

func PriceWithinTolerance(client, authoritative decimal.Decimal) bool {
	return client.Sub(authoritative).Abs().LessThanOrEqual(PriceTolerance)
}

func knownSize(key string) bool {
	for _, k := range models.SizeKeys {
		if k == key {
			return true
		}
	}
	return false
}

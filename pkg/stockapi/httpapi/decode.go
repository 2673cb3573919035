package httpapi

import (
	"stockscan/pkg/domain"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// required tracks the mandatory fields of one JSON object while it is decoded.
type required map[string]bool

func newRequired(fields ...string) required {
	r := make(required, len(fields))
	for _, f := range fields {
		r[f] = false
	}

	return r
}

func (r required) seen(field string) {
	if _, ok := r[field]; ok {
		r[field] = true
	}
}

func (r required) check() error {
	for f, ok := range r {
		if !ok {
			return errors.Errorf("missing required field %q", f)
		}
	}

	return nil
}

// optStr reads a string that the server may send as null.
func optStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}

	return d.Str()
}

func optInt(d *jx.Decoder) (int, error) {
	if d.Next() == jx.Null {
		return 0, d.Null()
	}

	return d.Int()
}

func decodeProduct(b []byte) (*domain.Product, error) {
	var p domain.Product
	req := newRequired("title", "brand")

	err := jx.DecodeBytes(b).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "title":
			p.Title, err = d.Str()
		case "brand":
			p.Brand, err = d.Str()
		case "image":
			p.Image, err = optStr(d)
		case "description":
			p.Description, err = optStr(d)
		case "category":
			p.Category, err = optStr(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		req.seen(key)

		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := req.check(); err != nil {
		return nil, err
	}

	return &p, nil
}

func decodeStockRecord(d *jx.Decoder) (domain.StockRecord, error) {
	var r domain.StockRecord
	req := newRequired("barcode", "title", "quantity")

	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "barcode":
			r.Barcode, err = d.Str()
		case "title":
			r.Title, err = d.Str()
		case "quantity":
			r.Quantity, err = d.Int()
		case "brand":
			r.Brand, err = optStr(d)
		case "image":
			r.Image, err = optStr(d)
		case "fromScan":
			r.FromScan, err = d.Bool()
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		req.seen(key)

		return nil
	})
	if err != nil {
		return r, err
	}

	return r, req.check()
}

func decodeStockRecords(b []byte) ([]domain.StockRecord, error) {
	records := []domain.StockRecord{}
	err := jx.DecodeBytes(b).Arr(func(d *jx.Decoder) error {
		r, err := decodeStockRecord(d)
		if err != nil {
			return errors.Wrapf(err, "record %d", len(records))
		}
		records = append(records, r)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

func decodeCategories(b []byte) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := jx.DecodeBytes(b).Arr(func(d *jx.Decoder) error {
		var c domain.Category
		req := newRequired("name", "itemCount")
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "name":
				c.Name, err = d.Str()
			case "itemCount":
				c.ItemCount, err = d.Int()
			default:
				return d.Skip()
			}
			req.seen(key)

			return err
		}); err != nil {
			return err
		}
		if err := req.check(); err != nil {
			return err
		}
		categories = append(categories, c)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func decodeCategoryInfo(b []byte) (*domain.CategoryInfo, error) {
	info := domain.CategoryInfo{Categories: []domain.SubCategory{}, Items: []string{}}
	req := newRequired("categories", "items")

	err := jx.DecodeBytes(b).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "categories":
			err = d.Arr(func(d *jx.Decoder) error {
				var sc domain.SubCategory
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "categoryName":
						sc.Name, err = d.Str()
					case "sumQuantity":
						sc.SumQuantity, err = d.Int()
					default:
						return d.Skip()
					}

					return err
				}); err != nil {
					return err
				}
				if sc.Name == "" {
					return errors.New("sub-category without categoryName")
				}
				info.Categories = append(info.Categories, sc)

				return nil
			})
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				if err != nil {
					return err
				}
				info.Items = append(info.Items, s)

				return nil
			})
		case "subTotalQuantity":
			info.SubTotalQuantity, err = optInt(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		req.seen(key)

		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := req.check(); err != nil {
		return nil, err
	}

	return &info, nil
}

func decodeStockItem(b []byte) (*domain.StockItem, error) {
	var item domain.StockItem
	req := newRequired("barcode", "title", "quantity")

	err := jx.DecodeBytes(b).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "barcode":
			item.Barcode, err = d.Str()
		case "title":
			item.Title, err = d.Str()
		case "quantity":
			item.Quantity, err = d.Int()
		case "brand":
			item.Brand, err = optStr(d)
		case "category":
			item.Category, err = optStr(d)
		case "image":
			item.Image, err = optStr(d)
		case "last_edit":
			item.LastEdit, err = optStr(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		req.seen(key)

		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := req.check(); err != nil {
		return nil, err
	}

	return &item, nil
}

// errorMessage extracts the "message" or "error" member of an error body,
// falling back to the raw body.
func errorMessage(b []byte) string {
	var msg string
	err := jx.DecodeBytes(b).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "message", "error":
			s, err := optStr(d)
			if err == nil && msg == "" {
				msg = s
			}

			return err
		default:
			return d.Skip()
		}
	})
	if err != nil || msg == "" {
		return strings.TrimSpace(string(b))
	}

	return msg
}

package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ProductID 后端有的返回字符串 id，有的返回数字 id，统一成字符串
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string { return string(id) }

func ProductIDFromInt(n int64) ProductID { return ProductID(strconv.FormatInt(n, 10)) }

type Product struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Barcodes    []string  `json:"barcodes,omitempty"`
}

// Clone 深拷贝，切片不与原值共享
func (p Product) Clone() Product {
	out := p
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	if p.Barcodes != nil {
		out.Barcodes = append([]string(nil), p.Barcodes...)
	}
	return out
}

type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

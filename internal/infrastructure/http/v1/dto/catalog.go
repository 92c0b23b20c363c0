package dto

import (
	"time"

	"pdv/internal/core/apperror"
	"pdv/internal/core/cpf"
	"pdv/internal/core/types"
	"pdv/internal/domain/catalogs/client"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/catalogs/seller"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// --- Products ---

// ProductResponse is a product as shown in the catalog screen.
type ProductResponse struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	Description  string      `json:"description"`
	Cost         types.Money `json:"cost"`
	SalePrice    types.Money `json:"salePrice"`
	Active       bool        `json:"active"`
	RequiresSize bool        `json:"requiresSize"`
	Version      int         `json:"version"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// FromProduct maps a product.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Description:  p.Description,
		Cost:         p.Cost,
		SalePrice:    p.SalePrice,
		Active:       p.Active,
		RequiresSize: p.RequiresSize(),
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CreateProductRequest for POST /products.
type CreateProductRequest struct {
	Code        string      `json:"code" binding:"required,max=50"`
	Description string      `json:"description" binding:"required,max=200"`
	Cost        types.Money `json:"cost"`
	SalePrice   types.Money `json:"salePrice"`
	Active      *bool       `json:"active"`
}

// ToDomain builds a new product.
func (r *CreateProductRequest) ToDomain() *product.Product {
	p := product.NewProduct(r.Code, r.Description, r.Cost, r.SalePrice)
	if r.Active != nil {
		p.Active = *r.Active
	}
	return p
}

// UpdateProductRequest for PUT /products/:id. Nil fields keep their value.
type UpdateProductRequest struct {
	Code        *string      `json:"code" binding:"omitempty,min=1,max=50"`
	Description *string      `json:"description" binding:"omitempty,min=1,max=200"`
	Cost        *types.Money `json:"cost"`
	SalePrice   *types.Money `json:"salePrice"`
	Active      *bool        `json:"active"`
	Version     int          `json:"version" binding:"required,min=1"`
}

// Apply copies the set fields onto p.
func (r *UpdateProductRequest) Apply(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Cost != nil {
		p.Cost = *r.Cost
	}
	if r.SalePrice != nil {
		p.SalePrice = *r.SalePrice
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
	p.Version = r.Version
}

// SizesResponse lists the sizes accepted for apparel.
type SizesResponse struct {
	Sizes []string `json:"sizes"`
}

// --- Clients ---

// ClientResponse carries both raw and formatted CPF and phone.
type ClientResponse struct {
	ID             string    `json:"id"`
	CPF            string    `json:"cpf"`
	CPFFormatted   string    `json:"cpfFormatted"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	PhoneFormatted string    `json:"phoneFormatted"`
	BirthDate      string    `json:"birthDate"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromClient maps a client.
func FromClient(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID.String(),
		CPF:            c.CPF,
		CPFFormatted:   c.MaskedCPF(),
		Name:           c.Name,
		Phone:          c.Phone,
		PhoneFormatted: cpf.MaskPhone(c.Phone),
		BirthDate:      c.BirthDate.Format(DateLayout),
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ClientRequest is used for both create and update; CPF may be masked.
type ClientRequest struct {
	CPF       string `json:"cpf" binding:"required,cpf"`
	Name      string `json:"name" binding:"required,max=150"`
	Phone     string `json:"phone" binding:"required,max=20"`
	BirthDate string `json:"birthDate" binding:"required,datetime=2006-01-02"`
	Version   int    `json:"version" binding:"omitempty,min=1"`
}

func (r *ClientRequest) birthDate() (time.Time, error) {
	t, err := time.Parse(DateLayout, r.BirthDate)
	if err != nil {
		return time.Time{}, apperror.NewValidation("birth date must be YYYY-MM-DD").WithDetail("field", "birthDate")
	}
	return t, nil
}

// ToDomain builds a new client.
func (r *ClientRequest) ToDomain() (*client.Client, error) {
	bd, err := r.birthDate()
	if err != nil {
		return nil, err
	}
	return client.NewClient(r.CPF, r.Name, r.Phone, bd), nil
}

// Apply replaces the editable fields of c.
func (r *ClientRequest) Apply(c *client.Client) error {
	bd, err := r.birthDate()
	if err != nil {
		return err
	}
	if r.Version == 0 {
		return apperror.NewValidation("version is required").WithDetail("field", "version")
	}
	c.CPF = r.CPF
	c.Name = r.Name
	c.Phone = r.Phone
	c.BirthDate = bd
	c.Version = r.Version
	return nil
}

// --- Sellers ---

// SellerResponse is a seller.
type SellerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	PhoneFormatted string    `json:"phoneFormatted,omitempty"`
	Active         bool      `json:"active"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FromSeller maps a seller.
func FromSeller(s *seller.Seller) SellerResponse {
	return SellerResponse{
		ID:             s.ID.String(),
		Name:           s.Name,
		Phone:          s.Phone,
		PhoneFormatted: cpf.MaskPhone(s.Phone),
		Active:         s.Active,
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
	}
}

// SellerRequest for create and update.
type SellerRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Active  *bool  `json:"active"`
	Version int    `json:"version" binding:"omitempty,min=1"`
}

// ToDomain builds a new seller.
func (r *SellerRequest) ToDomain() *seller.Seller {
	s := seller.NewSeller(r.Name, r.Phone)
	if r.Active != nil {
		s.Active = *r.Active
	}
	return s
}

// Apply replaces the editable fields of s.
func (r *SellerRequest) Apply(s *seller.Seller) error {
	if r.Version == 0 {
		return apperror.NewValidation("version is required").WithDetail("field", "version")
	}
	s.Name = r.Name
	s.Phone = r.Phone
	if r.Active != nil {
		s.Active = *r.Active
	}
	s.Version = r.Version
	return nil
}

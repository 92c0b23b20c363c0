package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pdv/internal/core/entity"
	"pdv/internal/core/types"
)

type mockProduct struct {
	entity.BaseEntity
	Code      string      `db:"code"`
	SalePrice types.Money `db:"sale_price"`
	Scratch   string      `db:"-"`
	Untagged  string
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[mockProduct]()

	assert.Equal(t, []string{"id", "version", "created_at", "updated_at", "code", "sale_price"}, cols)
}

func TestStructToMap(t *testing.T) {
	p := &mockProduct{
		BaseEntity: entity.NewBaseEntity(),
		Code:       "001",
		SalePrice:  types.MustMoney("29.90"),
		Scratch:    "ignored",
	}
	p.Version = 3

	m := StructToMap(p)

	assert.Len(t, m, 6)
	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "001", m["code"])
	assert.True(t, types.MustMoney("29.90").Equal(m["sale_price"].(types.Money)))
	assert.NotContains(t, m, "Scratch")
	assert.Nil(t, StructToMap((*mockProduct)(nil)))
}

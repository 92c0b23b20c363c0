package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pdv/internal/core/apperror"
)

func TestPassphraseGate_Plain(t *testing.T) {
	gate, err := NewPassphraseGate("", "2244")
	require.NoError(t, err)

	assert.NoError(t, gate.Check("2244"))
	assert.NoError(t, gate.Check(" 2244 "))

	err = gate.Check("1234")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPassphrase))

	assert.Error(t, gate.Check(""))
}

func TestPassphraseGate_Hash(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)

	gate, err := NewPassphraseGate(string(h), "ignored")
	require.NoError(t, err)
	assert.NoError(t, gate.Check("segredo"))
	assert.Error(t, gate.Check("ignored"))
}

func TestPassphraseGate_BadHash(t *testing.T) {
	_, err := NewPassphraseGate("not-a-bcrypt-hash", "")
	assert.Error(t, err)
}

func TestCan(t *testing.T) {
	tests := []struct {
		role     Role
		action   Action
		resource string
		want     bool
	}{
		{RoleAdmin, ActionDelete, ResourceSales, true},
		{RoleAdmin, ActionCreate, ResourceUsers, true},
		{RoleOperator, ActionRead, ResourceProducts, true},
		{RoleOperator, ActionCreate, ResourceProducts, false},
		{RoleOperator, ActionUpdate, ResourceClients, true},
		{RoleOperator, ActionDelete, ResourceClients, false},
		{RoleOperator, ActionCreate, ResourceSales, true},
		{RoleOperator, ActionDelete, ResourceSales, false},
		{RoleOperator, ActionRead, ResourceUsers, false},
		{RoleViewer, ActionRead, ResourceSales, true},
		{RoleViewer, ActionCreate, ResourceSales, false},
		{Role("ghost"), ActionRead, ResourceClients, true},
		{Role("ghost"), ActionCreate, ResourceClients, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action)+"/"+tt.resource, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.action, tt.resource))
		})
	}
}

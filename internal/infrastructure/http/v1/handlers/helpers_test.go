package handlers_test

import "pdv/internal/core/types"

func domainMoney(s string) types.Money {
	return types.MustMoney(s)
}

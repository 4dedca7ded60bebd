package service

import (
	"context"

	"github.com/xela07ax/cachestats-console/internal/domain"
	"github.com/xela07ax/cachestats-console/internal/infra"
)

// StaticOperators — операторы из секции auth.users конфигурации.
type StaticOperators map[string]*domain.Operator

func NewStaticOperators(users []infra.OperatorConfig) StaticOperators {
	ops := make(StaticOperators, len(users))
	for _, u := range users {
		scopes := make(map[string]bool, len(u.Scopes))
		for _, s := range u.Scopes {
			scopes[s] = true
		}
		ops[u.Username] = &domain.Operator{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Scopes:       scopes,
		}
	}
	return ops
}

// GetOperator возвращает nil без ошибки, если оператора нет.
func (s StaticOperators) GetOperator(_ context.Context, username string) (*domain.Operator, error) {
	return s[username], nil
}

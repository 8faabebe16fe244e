package ports

import "context"

// UnitOfWork executa fn numa transação. Repositórios chamados com o ctx recebido
// por fn participam dela; erro ou panic desfaz tudo.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

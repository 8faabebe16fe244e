// Package migrations evolui o schema relacional no boot, antes do servidor HTTP
// aceitar tráfego. Não há tabela de versões: cada passo inspeciona o schema
// (tabela, coluna, índice, constraint) e só age se o alvo estiver ausente, então
// a sequência inteira pode ser reexecutada a cada inicialização.
//
// Passos fundacionais (criação de tabelas) abortam o boot em caso de falha.
// Os demais (colunas, índices, backfills, seeds) são registrados no log e a
// sequência continua.
package migrations

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/ports"
)

// StepFunc aplica um passo; deve ser idempotente
type StepFunc func(ctx context.Context, db *gorm.DB) error

// Step é um passo da sequência de migração
type Step struct {
	Name   string
	Target string
	// Foundational indica que passos posteriores dependem deste
	Foundational bool
	Apply        StepFunc
}

// StepError identifica o passo e o alvo que falharam
type StepError struct {
	Step   string
	Target string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("migration step %q on %s: %v", e.Step, e.Target, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Report resume uma execução
type Report struct {
	Executed int
	Failures []*StepError
}

// OK indica que nenhum passo falhou
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Runner executa os passos em ordem, na goroutine chamadora
type Runner struct {
	db     *gorm.DB
	steps  []Step
	logger ports.Logger
}

// NewRunner cria um Runner. A ordem dos passos é a ordem de execução.
func NewRunner(db *gorm.DB, logger ports.Logger, steps ...Step) *Runner {
	return &Runner{
		db:     db,
		steps:  steps,
		logger: logger,
	}
}

// Steps retorna a sequência configurada
func (r *Runner) Steps() []Step {
	return r.steps
}

// Run executa todos os passos. Retorna erro (*StepError) apenas quando um passo
// fundacional falha ou o contexto é cancelado.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	r.logger.Info("running schema migrations", "steps", len(r.steps))

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		log := r.logger.With("step", step.Name, "target", step.Target)
		log.Debug("applying migration step")

		err := step.Apply(ctx, r.db.WithContext(ctx))
		report.Executed++
		if err == nil {
			continue
		}

		stepErr := &StepError{Step: step.Name, Target: step.Target, Err: err}
		if step.Foundational {
			log.Error("foundational migration step failed", "error", err)
			return report, stepErr
		}

		log.Warn("migration step failed, continuing", "error", err)
		report.Failures = append(report.Failures, stepErr)
	}

	r.logger.Info("schema migrations finished",
		"executed", report.Executed,
		"failures", len(report.Failures),
	)

	return report, nil
}

// Migrate executa a sequência padrão
func Migrate(ctx context.Context, db *gorm.DB, logger ports.Logger, opts Options) (*Report, error) {
	return NewRunner(db, logger, DefaultSteps(opts, logger)...).Run(ctx)
}

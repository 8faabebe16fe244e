package migrations

import (
	"context"

	"gorm.io/gorm"
)

// ensureTable cria a tabela do model se ela não existir
func ensureTable(model any) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		m := db.Migrator()
		if m.HasTable(model) {
			return nil
		}
		return m.CreateTable(model)
	}
}

// ensureColumns adiciona as colunas ausentes. As definições vêm do model e são
// sempre anuláveis ou com default, para que as linhas existentes continuem válidas.
func ensureColumns(model any, fields ...string) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		m := db.Migrator()
		for _, field := range fields {
			if m.HasColumn(model, field) {
				continue
			}
			if err := m.AddColumn(model, field); err != nil {
				return err
			}
		}
		return nil
	}
}

// ensureIndex cria o índice nomeado (declarado no model) se ausente
func ensureIndex(model any, name string) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		m := db.Migrator()
		if m.HasIndex(model, name) {
			return nil
		}
		return m.CreateIndex(model, name)
	}
}

// ensureForeignKey cria a constraint da relação do model se ausente.
// SQLite não permite adicionar constraints a tabelas existentes; lá o passo não faz nada.
func ensureForeignKey(model any, relation string) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		if db.Dialector.Name() == "sqlite" {
			return nil
		}
		m := db.Migrator()
		if m.HasConstraint(model, relation) {
			return nil
		}
		return m.CreateConstraint(model, relation)
	}
}

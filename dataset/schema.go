package dataset

import (
	"fmt"

	"gorm.io/gorm"
)

// schema is the minimal layout the catalog statements rely on. Tables share
// column names only where the statements NATURAL JOIN them.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ocorrencia (
		Numero_da_Ocorrencia TEXT PRIMARY KEY,
		Classificacao_da_Ocorrencia TEXT,
		Data_da_Ocorrencia TEXT,
		Descricao TEXT,
		tipo_descricao TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS operacao (
		Numero_da_Ocorrencia TEXT,
		Tipo_da_Operacao TEXT,
		Fase_da_Operacao TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS voo (
		Numero_da_Ocorrencia TEXT,
		Aerodromo_de_Origem TEXT,
		Aerodromo_de_Destino TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS aerodromo (
		ICAO TEXT PRIMARY KEY,
		Tipo_de_Aerodromo TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS lesao (
		Pessoa_afetada TEXT,
		Tipo_Lesao TEXT,
		PRIMARY KEY (Pessoa_afetada, Tipo_Lesao)
	)`,
	`CREATE TABLE IF NOT EXISTS lesoes_ocorrencia (
		Numero_da_Ocorrencia TEXT,
		Pessoa_afetada TEXT,
		Tipo_Lesao TEXT,
		Quantidade INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS local (
		Codigo_Local INTEGER PRIMARY KEY,
		Regiao TEXT,
		UF TEXT,
		Municipio TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS local_ocorrencia (
		Numero_da_Ocorrencia TEXT,
		Codigo_Local INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS aeronave (
		Matricula TEXT PRIMARY KEY,
		Nome_do_Fabricante TEXT,
		Modelo TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS aeronave_ocorrencia (
		Matricula TEXT,
		Numero_da_Ocorrencia TEXT
	)`,
}

// Tables lists the tables created by Migrate, in creation order.
var Tables = []string{
	"ocorrencia", "operacao", "voo", "aerodromo", "lesao",
	"lesoes_ocorrencia", "local", "local_ocorrencia", "aeronave", "aeronave_ocorrencia",
}

// Migrate creates the empty dataset schema. Existing tables are left alone.
func Migrate(db *gorm.DB) error {
	for i, ddl := range schema {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("create table %s: %w", Tables[i], err)
		}
	}
	return nil
}

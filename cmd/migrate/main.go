// Comando migrate aplica el esquema con goose: go run ./cmd/migrate [up|down|status|version]
package main

import (
	"database/sql"
	"flag"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/inventario-ledger/migrations"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development"}).Fatal().Err(err).Msg("cargar configuración")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if envErr != nil {
		log.Debug().Err(envErr).Msg(".env no encontrado; se usan solo variables de entorno")
	}

	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"up"}
	}
	command := args[0]

	db, err := sql.Open("postgres", cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir conexión")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Error().Err(err).Msg("ping DB")
		os.Exit(1)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("dialecto goose")
	}
	if err := goose.Run(command, db, ".", args[1:]...); err != nil {
		log.Error().Err(err).Str("command", command).Msg("goose")
		os.Exit(1)
	}
	log.Info().Str("command", command).Msg("migraciones aplicadas")
}

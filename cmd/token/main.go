// Comando token emite un JWT para un operador: go run ./cmd/token -user <id> -role bodeguero
package main

import (
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "id del operador (subject del token)")
	role := flag.String("role", "vendedor", "admin | bodeguero | vendedor")
	minutes := flag.Int("exp", 0, "minutos de validez (0 usa JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development"}).Fatal().Err(err).Msg("cargar configuración")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	switch *role {
	case "admin", "bodeguero", "vendedor":
	default:
		log.Fatal().Str("role", *role).Msg("rol desconocido")
	}
	if *userID == "" {
		log.Fatal().Msg("-user es requerido")
	}
	exp := *minutes
	if exp <= 0 {
		exp = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Println(tok)
}

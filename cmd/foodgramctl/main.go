// Command foodgramctl runs maintenance tasks against the Foodgram database:
//
//	foodgramctl migrate
//	foodgramctl import -ingredients data/ingredients.csv -tags s3://bucket/tags.json
//	foodgramctl init-admin
//	foodgramctl token -email alice@example.com
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/importer"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/service"
)

const usage = "usage: foodgramctl <migrate|import|init-admin|token> [flags]"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain returns the process exit code so deferred cleanup runs before exit
func realMain(args []string, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	zl, err := logger.New(cfg.LogLevel, config.IsProduction())
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	logger.SetGlobal(zl)
	defer logger.Sync()

	db, err := database.New(cfg, zl)
	if err != nil {
		zl.Error("Failed to connect to database", zap.Error(err))
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zl.Error("Failed to close database", zap.Error(err))
		}
	}()

	return execute(context.Background(), cfg, db, zl, args[0], args[1:], os.Stdout)
}

func execute(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger, cmd string, args []string, out io.Writer) int {
	if err := run(ctx, cfg, db, log, cmd, args, out); err != nil {
		log.Error("Command failed", zap.String("command", cmd), zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "migrate":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("Migrations applied")
		return nil
	case "import":
		return runImport(ctx, cfg, db, log, args, out)
	case "init-admin":
		return runInitAdmin(ctx, db, log, os.Getenv)
	case "token":
		return runToken(ctx, cfg, db, log, args, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func runImport(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	ingredients := fs.String("ingredients", "data/ingredients.csv", "ingredients source: path or s3://bucket/key, .csv or .json")
	tags := fs.String("tags", "data/tags.csv", "tags source: path or s3://bucket/key, .csv or .json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var objects importer.ObjectOpener
	if cfg.S3.Endpoint != "" || cfg.S3.AccessKey != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg.S3)
		if err != nil {
			return err
		}
		objects = s3cfg
	}
	im := importer.New(db, objects, log)

	if *ingredients != "" {
		res, err := im.ImportIngredients(ctx, *ingredients)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "ingredients: read %d, inserted %d, skipped %d\n", res.Read, res.Inserted, res.Skipped)
	}
	if *tags != "" {
		res, err := im.ImportTags(ctx, *tags)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "tags: read %d, inserted %d, skipped %d\n", res.Read, res.Inserted, res.Skipped)
	}
	return nil
}

// runInitAdmin creates the staff account described by ADMIN_EMAIL,
// ADMIN_USERNAME and ADMIN_PASSWORD if it does not exist yet
func runInitAdmin(ctx context.Context, db *gorm.DB, log *zap.Logger, getenv func(string) string) error {
	email, username, password := getenv("ADMIN_EMAIL"), getenv("ADMIN_USERNAME"), getenv("ADMIN_PASSWORD")
	if email == "" || username == "" || password == "" {
		return errors.New("ADMIN_EMAIL, ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}

	created, err := service.NewUserService(db, log).EnsureAdmin(ctx, email, username, password)
	if err != nil {
		return err
	}
	if !created {
		log.Info("Admin account already exists", zap.String("username", username))
	}
	return nil
}

// runToken prints a bearer token for an existing user
func runToken(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	email := fs.String("email", "", "email of the user to sign a token for")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	user, err := service.NewUserService(db, log).GetByEmail(ctx, *email)
	if err != nil {
		return err
	}
	token, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL).IssueToken(user)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

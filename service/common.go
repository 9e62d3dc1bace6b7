package service

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"inkwell/app/config"
	"inkwell/app/repositories"
)

// openStore opens the configured backend. SQL schemas are brought up to date
// first when migrate is set.
func openStore(cfg *config.Config, logger *zap.Logger, migrate bool) (*repositories.Store, error) {
	if cfg.Storage.Driver == config.DriverBadger || !migrate {
		return repositories.Open(cfg.Storage, logger)
	}
	db, err := repositories.OpenGorm(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	store := repositories.NewGormStore(db)
	if err := repositories.Migrate(db); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

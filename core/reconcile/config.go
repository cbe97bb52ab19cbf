package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// validate checks that a run configuration is usable. Overlapping key and
// compare columns are legal but almost always a mistake, so they are logged
// rather than rejected.
func (c *Config) validate(logger *zap.Logger) error {
	var errs []error
	if strings.TrimSpace(c.SourceName) == "" {
		errs = append(errs, errors.New("source name is empty"))
	}
	if strings.TrimSpace(c.TargetName) == "" {
		errs = append(errs, errors.New("target name is empty"))
	}
	if len(c.KeyColumns) == 0 {
		errs = append(errs, errors.New("no key columns configured"))
	}
	if len(c.CompareColumns) == 0 {
		errs = append(errs, errors.New("no compare columns configured"))
	}
	for i, col := range c.KeyColumns {
		if strings.TrimSpace(col) == "" {
			errs = append(errs, fmt.Errorf("key column %d is empty", i))
		}
	}
	for i, col := range c.CompareColumns {
		if strings.TrimSpace(col) == "" {
			errs = append(errs, fmt.Errorf("compare column %d is empty", i))
		}
	}
	for col, tol := range c.Tolerance {
		if tol < 0 {
			errs = append(errs, fmt.Errorf("negative tolerance %g for column %q", tol, col))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	keys := make(map[string]bool, len(c.KeyColumns))
	for _, col := range c.KeyColumns {
		keys[col] = true
	}
	for _, col := range c.CompareColumns {
		if keys[col] {
			logger.Warn("column used both as key and compare column", zap.String("column", col))
		}
	}
	return nil
}

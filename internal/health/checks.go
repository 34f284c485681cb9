package health

import (
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const (
	ComponentName    = "storefront"
	ComponentVersion = "1.0.0"
)

// NewHealthHandler checks Postgres and Redis. Extra checks are appended after
// them.
func NewHealthHandler(cfg *config.Config, extra ...health.Config) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		},
		{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    ComponentName,
			Version: ComponentVersion,
		}),
		health.WithSystemInfo(),
		health.WithChecks(append(checks, extra...)...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

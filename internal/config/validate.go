package config

import (
	"fmt"
)

// Validate checks cross-field constraints that tags cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}

	if c.Bulk.MaxBatchItems <= 0 {
		return fmt.Errorf("bulk.max_batch_items must be positive")
	}
	if c.Bulk.MatchFloor < 0 || c.Bulk.MatchFloor > 1 {
		return fmt.Errorf("bulk.match_floor %v must be within [0,1]", c.Bulk.MatchFloor)
	}
	if c.Bulk.MatchConfident < 0 || c.Bulk.MatchConfident > 1 {
		return fmt.Errorf("bulk.match_confident %v must be within [0,1]", c.Bulk.MatchConfident)
	}
	if c.Bulk.MatchFloor >= c.Bulk.MatchConfident {
		return fmt.Errorf("bulk.match_floor must be below bulk.match_confident")
	}
	if c.Bulk.SuggestionLimit <= 0 {
		return fmt.Errorf("bulk.suggestion_limit must be positive")
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns exceeds database.max_conns")
	}

	return nil
}

package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Queries bundles every database access behind one receiver.
type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

// Package postgresengine provides the PostgreSQL implementation of the
// generic repository.
//
// This package executes typed CRUD operations over a single table described
// by a repository.Table definition, supporting multiple database adapters
// (pgx pool, sqlx) behind one uniform operation contract.
//
// Key features:
//   - Multiple database adapter support (PGX, SQLX) with per-adapter
//     read-back of database-populated columns
//   - Generic model mapping without reflection at query time
//   - Partial updates that touch only the named columns
//   - Ambient connections resolved per call from a context slot
//   - Dual-logger and metrics support with proper resource cleanup
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	repo, _ := postgresengine.NewFromPGXPool(transactionsTable, db)
//
//	// With operational logging (production-safe)
//	repo, _ := postgresengine.NewFromPGXPool(
//		transactionsTable,
//		db,
//		postgresengine.WithLogger(logger),
//		postgresengine.WithMetrics(collector),
//	)
//
//	// With the connection carried by the context
//	repo, _ := postgresengine.NewWithAmbientConnection(transactionsTable)
//	ctx = repository.WithConnection(ctx, db)
//
//	trans, _ = repo.Insert(ctx, trans)
//	all, _ := repo.GetAll(ctx, []repository.Filter{repository.Col("price").Gte(100)})
package postgresengine
